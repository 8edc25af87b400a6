package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS credentials (
    id          INTEGER PRIMARY KEY CHECK (id = 1),
    token       TEXT NOT NULL,
    username    TEXT,
    base_url    TEXT NOT NULL,
    saved_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS order_snapshot (
    position    INTEGER PRIMARY KEY,
    order_id    TEXT NOT NULL,
    name        TEXT NOT NULL,
    order_type  TEXT NOT NULL,
    amount      REAL NOT NULL,
    currency    TEXT NOT NULL,
    remark      TEXT,
    date        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshot_meta (
    id            INTEGER PRIMARY KEY CHECK (id = 1),
    base_url      TEXT NOT NULL,
    server_total  INTEGER NOT NULL,
    fetched_at    TEXT NOT NULL
);
`
