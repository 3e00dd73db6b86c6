package cheatsheet

// EntrySpec is a single row of the cheatsheet YAML.
type EntrySpec struct {
	Name    string   `yaml:"name"`
	URL     string   `yaml:"url"`
	Summary string   `yaml:"summary"`
	Tags    []string `yaml:"tags"`
}

// CategorySpec groups entries under one comparison category.
type CategorySpec struct {
	Name    string      `yaml:"name"`
	Entries []EntrySpec `yaml:"entries"`
}

// File is the root structure of cheatsheet.yaml:
//
//	categories:
//	  - name: Editors
//	    entries:
//	      - name: Neovim
//	        url: https://neovim.io
//	        summary: Modal editor
//	        tags: [terminal, lua]
type File struct {
	Categories []CategorySpec `yaml:"categories"`
}
