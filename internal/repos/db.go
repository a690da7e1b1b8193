package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := EnsureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline catalog if the inventory is empty (dev/demo only;
	// real stock is maintained externally).
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

// EnsureSchema creates the ledger tables. Exported so tests can build
// the same schema against an in-memory database.
func EnsureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Inventory: one row per product code. stock -1 = display-only,
-- 0 = sold out, >0 = units available. Mutated only by the commit path.
CREATE TABLE IF NOT EXISTS inventory(
  code TEXT PRIMARY KEY,
  category TEXT NOT NULL DEFAULT '',
  intro TEXT NOT NULL DEFAULT '',
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= -1),
  price INTEGER NOT NULL DEFAULT 0 CHECK (price >= 0),
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_inventory_category ON inventory(category);

-- Orders: append-only, fixed 11-column layout.
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  customer_name TEXT NOT NULL,
  phone TEXT NOT NULL,
  email TEXT NOT NULL,
  address TEXT NOT NULL,
  account_last5 TEXT NOT NULL,
  facebook TEXT NOT NULL DEFAULT '',
  remark TEXT NOT NULL DEFAULT '',
  summary TEXT NOT NULL,
  total INTEGER NOT NULL,
  created_at TEXT NOT NULL
);

-- Pending drafts: single slot per session, cleared exactly once at
-- confirm/cancel time.
CREATE TABLE IF NOT EXISTS pending_drafts(
  session_id TEXT PRIMARY KEY,
  token TEXT NOT NULL,
  payload TEXT NOT NULL,
  created_at TEXT NOT NULL
);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM inventory`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo inventory")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO inventory(code,category,intro,stock,price) VALUES
	  ('TEA-OOLONG','tea','High mountain oolong, 150g',12,450),
	  ('TEA-BLACK','tea','Small-leaf black tea, 100g',5,380),
	  ('HONEY-01','pantry','Longan honey, 700g',3,600),
	  ('RICE-01','pantry','Organic brown rice, 2kg',0,320),
	  ('CRAFT-01','crafts','Hand-dyed table runner (display only)',-1,0)`)
	return tx.Commit()
}
