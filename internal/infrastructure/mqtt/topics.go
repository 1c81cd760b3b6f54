package mqtt

import "strings"

// DefaultTopicPrefix is used when no prefix is configured.
const DefaultTopicPrefix = "sqlweb"

// SQLTopic is the pseudo-table that raw console statements publish under.
const SQLTopic = "_sql"

// Topics builds the MQTT topics of one sqlweb instance.
//
//	topics := mqtt.NewTopics("sqlweb")
//	topics.Event("users")  // "sqlweb/events/users"
//	topics.SystemStatus()  // "sqlweb/system/status"
type Topics struct {
	prefix string
}

// NewTopics returns a builder rooted at prefix. Surrounding slashes are
// trimmed; an empty prefix falls back to DefaultTopicPrefix.
func NewTopics(prefix string) Topics {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return Topics{prefix: prefix}
}

// Prefix returns the topic root.
func (t Topics) Prefix() string {
	if t.prefix == "" {
		return DefaultTopicPrefix
	}
	return t.prefix
}

// Event returns the change-event topic for table. An empty table (a raw
// SQL statement with no single target) maps to SQLTopic.
//
// Example: sqlweb/events/users
func (t Topics) Event(table string) string {
	if table == "" {
		table = SQLTopic
	}
	return t.Prefix() + "/events/" + sanitiseLevel(table)
}

// SystemStatus returns the retained online/offline status topic.
//
// Example: sqlweb/system/status
func (t Topics) SystemStatus() string {
	return t.Prefix() + "/system/status"
}

// sanitiseLevel keeps a topic level from introducing extra levels or
// wildcards. Validated table names never contain these characters.
func sanitiseLevel(s string) string {
	return strings.NewReplacer("/", "_", "+", "_", "#", "_").Replace(s)
}
