package deps

import (
	"time"

	"github.com/shelfsync/shelfsync/internal/catalog"
	"github.com/shelfsync/shelfsync/internal/logger"
	"github.com/shelfsync/shelfsync/internal/socket"
	"github.com/shelfsync/shelfsync/internal/store/docstore"
)

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	TimeNow      func() time.Time  // for testing, defaults to time.Now
	Docs         docstore.Store    // per-user document persistence
	Catalog      *catalog.Catalog  // in-memory cheatsheet (nil when disabled)
	Hub          *socket.Hub       // websocket fan-out (nil when disabled)
	TrustProxy   bool              // true if running behind a trusted reverse proxy
	AllowedCIDRS []string          // IPs allowed to access healthz/readyz endpoints
}
