package store

// Schema contains the DDL for all tables. Timestamps are unix milliseconds.
const Schema = `
CREATE TABLE IF NOT EXISTS applications (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    api_key_hash    TEXT NOT NULL UNIQUE,
    is_active       INTEGER NOT NULL DEFAULT 1,
    created_at      INTEGER NOT NULL
);

-- One mapping per application and message type.
CREATE TABLE IF NOT EXISTS mapping_configs (
    id              TEXT PRIMARY KEY,
    app_id          TEXT NOT NULL,
    app_name        TEXT NOT NULL DEFAULT '',
    message_type    TEXT NOT NULL,
    field_mappings  TEXT NOT NULL,
    format_type     TEXT NOT NULL DEFAULT 'json',
    created_at      INTEGER NOT NULL,
    updated_at      INTEGER NOT NULL,
    UNIQUE (app_id, message_type)
);
CREATE INDEX IF NOT EXISTS idx_mapping_configs_app ON mapping_configs(app_id);

CREATE TABLE IF NOT EXISTS messages (
    id              TEXT PRIMARY KEY,
    message_type    TEXT NOT NULL,
    sender_id       TEXT NOT NULL,
    receiver_id     TEXT NOT NULL DEFAULT '',
    status          TEXT NOT NULL,
    data            TEXT NOT NULL,
    xml_data        TEXT NOT NULL DEFAULT '',
    error_message   TEXT NOT NULL DEFAULT '',
    created_at      INTEGER NOT NULL,
    updated_at      INTEGER NOT NULL,
    delivered_at    INTEGER
);
CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages(sender_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_messages_receiver ON messages(receiver_id, created_at DESC);
`
