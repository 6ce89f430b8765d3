package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// IMPORTANT: sellers and customers must be created BEFORE products and
// invoices due to foreign key constraints.
const schema = `
CREATE TABLE IF NOT EXISTS sellers (
    s_id TEXT PRIMARY KEY,
    s_name TEXT NOT NULL,
    s_email TEXT NOT NULL UNIQUE,
    s_phone TEXT NOT NULL,
    s_address TEXT NOT NULL,
    password_hash TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS customers (
    c_id TEXT PRIMARY KEY,
    c_name TEXT NOT NULL,
    c_email TEXT NOT NULL UNIQUE,
    c_phone TEXT NOT NULL,
    c_address TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS products (
    p_id TEXT PRIMARY KEY,
    p_name TEXT NOT NULL,
    p_price TEXT NOT NULL,
    p_description TEXT,
    p_stock INTEGER NOT NULL DEFAULT 0,
    s_id TEXT NOT NULL,
    FOREIGN KEY (s_id) REFERENCES sellers(s_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS invoices (
    invoice_no TEXT PRIMARY KEY,
    invoice_datetime INTEGER NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending',
    tax TEXT NOT NULL,
    amount TEXT NOT NULL,
    s_id TEXT NOT NULL,
    c_id TEXT NOT NULL,
    FOREIGN KEY (s_id) REFERENCES sellers(s_id) ON DELETE CASCADE,
    FOREIGN KEY (c_id) REFERENCES customers(c_id)
);

CREATE TABLE IF NOT EXISTS invoice_items (
    item_id INTEGER PRIMARY KEY AUTOINCREMENT,
    invoice_no TEXT NOT NULL,
    p_id TEXT NOT NULL,
    item_quantity INTEGER NOT NULL,
    discount TEXT NOT NULL,
    FOREIGN KEY (invoice_no) REFERENCES invoices(invoice_no) ON DELETE CASCADE,
    FOREIGN KEY (p_id) REFERENCES products(p_id)
);

CREATE TABLE IF NOT EXISTS activities (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    actor_id TEXT NOT NULL,
    actor_role TEXT NOT NULL,
    action_type TEXT NOT NULL,
    description TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_products_s_id ON products(s_id);
CREATE INDEX IF NOT EXISTS idx_invoices_s_id ON invoices(s_id);
CREATE INDEX IF NOT EXISTS idx_invoices_c_id ON invoices(c_id);
CREATE INDEX IF NOT EXISTS idx_invoice_items_invoice_no ON invoice_items(invoice_no);
CREATE INDEX IF NOT EXISTS idx_invoice_items_p_id ON invoice_items(p_id);
CREATE INDEX IF NOT EXISTS idx_activities_actor_id ON activities(actor_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
