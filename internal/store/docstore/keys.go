package docstore

// KeyPrefixDoc is the prefix for stored document keys.
const KeyPrefixDoc = "shelfsync:doc:"

// DocKey returns the Redis key for a user's document.
func DocKey(userID string) string {
	return KeyPrefixDoc + userID
}
