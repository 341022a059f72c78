package config

// DefaultDatabasePath is where the graph store lives unless overridden via
// the DATABASE_PATH environment variable.
const DefaultDatabasePath = "./graph.db"
