package schema

// SchemaSQL contains the full database schema initialization script
const SchemaSQL = `
-- Users: keyed by the agent ID carried in passports
CREATE TABLE IF NOT EXISTS users (
    id VARCHAR(255) PRIMARY KEY,
    username VARCHAR(100) NOT NULL,
    is_guest BOOLEAN NOT NULL DEFAULT TRUE,
    max_slots INTEGER NOT NULL,
    can_trade BOOLEAN NOT NULL DEFAULT FALSE,
    reputation DOUBLE PRECISION NOT NULL DEFAULT 0.0,
    discord_id VARCHAR(64) UNIQUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    last_seen TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Inventory: one row per (user, item name) stack
CREATE TABLE IF NOT EXISTS inventory (
    user_id VARCHAR(255) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    item_name VARCHAR(100) NOT NULL,
    quantity INTEGER NOT NULL CHECK (quantity > 0),
    item_data JSONB NOT NULL DEFAULT '{}'::jsonb,
    origin_world VARCHAR(100) NOT NULL DEFAULT 'unknown',
    soulbound BOOLEAN NOT NULL DEFAULT FALSE,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (user_id, item_name)
);

-- Sessions: persisted mirror of the in-memory registry (audit only)
CREATE TABLE IF NOT EXISTS sessions (
    id UUID PRIMARY KEY,
    user_id VARCHAR(255) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    agent_id VARCHAR(255) NOT NULL,
    world_id VARCHAR(100),
    connected_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    last_seen TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_sessions_agent_id ON sessions(agent_id);
CREATE INDEX IF NOT EXISTS idx_sessions_last_seen ON sessions(last_seen);

-- Portals: destinations this world advertises
CREATE TABLE IF NOT EXISTS portals (
    id SERIAL PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    url VARCHAR(255) NOT NULL,
    world_type VARCHAR(50) NOT NULL DEFAULT 'world',
    description TEXT,
    is_public BOOLEAN NOT NULL DEFAULT TRUE,
    requires_reputation DOUBLE PRECISION NOT NULL DEFAULT 0.0
);

-- Audit log: append-only, written for rejected passports
CREATE TABLE IF NOT EXISTS audit_log (
    id BIGSERIAL PRIMARY KEY,
    event_type VARCHAR(100) NOT NULL,
    user_id VARCHAR(255),
    details JSONB NOT NULL DEFAULT '{}'::jsonb,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_audit_log_created_at ON audit_log(created_at);
`
