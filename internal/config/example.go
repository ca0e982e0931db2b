package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todo configuration file
# Values can be overridden by a .env file, TODO_* environment variables, or CLI flags

# State directory (supports ~ expansion and $VAR)
state_dir = "~/.todo"

# Key the list is stored under
storage_key = "todos"

# Storage backend: file, memory, or redis
backend = "file"

# Store file for the file backend (default: <state_dir>/store.json)
# store_file = "~/.todo/store.json"

# Storage quota in bytes; writes beyond it fail and the list stays in memory
# (0 = unlimited)
max_store_bytes = 0

# Redis backend
# redis_addr = "localhost:6379"
# redis_password = ""
# redis_db = 0
# redis_prefix = "todo:"

# Logging
# log_dir = "~/.todo/logs"
log_level = "info"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = false
log_caller = false

# Number of TUI run logs to keep
log_keep = 10
`
}
