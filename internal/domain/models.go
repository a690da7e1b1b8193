package domain

import "time"

// StockPrice is one inventory row as the ledger reports it.
// Stock -1 means display-only (untracked), 0 means sold out.
type StockPrice struct {
	Stock int
	Price int
}

// Snapshot is a point-in-time read of the ledger, keyed by product code.
// Never cached beyond one reconciliation or commit pass.
type Snapshot map[string]StockPrice

// CartLine mirrors the client-held cart line. Price and Stock are the
// values observed when the buyer added the line; they are display hints
// only and are never trusted at commit time.
type CartLine struct {
	Qty         int  `json:"qty"`
	Price       int  `json:"price"`
	Stock       int  `json:"stock"`
	Adjusted    bool `json:"adjusted,omitempty"`
	OriginalQty int  `json:"originalQty,omitempty"`
	OutOfStock  bool `json:"outOfStock,omitempty"`
}

// Cart maps product code to line. A line with Qty==0 is a terminal
// "you were too slow" marker; deletion is the only valid next step.
type Cart map[string]CartLine

// Adjustment is emitted when a reconciliation pass clamps a line down
// to the remaining stock.
type Adjustment struct {
	Code  string `json:"code"`
	Stock int    `json:"stock"`
}

// Buyer holds the fields collected at checkout. AccountLast5 is the
// tail of the bank account used for the out-of-band transfer.
type Buyer struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	AccountLast5 string `json:"accountLastFive"`
	Facebook     string `json:"facebook,omitempty"`
	Remark       string `json:"remark,omitempty"`
}

// Draft is a finalized-but-unconfirmed order bound to a single-use
// token. One session holds at most one live draft; issuing a new one
// supersedes the old.
type Draft struct {
	Token     string         `json:"token"`
	SessionID string         `json:"-"`
	Buyer     Buyer          `json:"buyer"`
	Items     map[string]int `json:"items"`
	Summary   string         `json:"summary"`
	Total     int            `json:"total"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Order is the durable record appended to the ledger, immutable once
// written. CreatedAt is formatted in the configured local time zone.
type Order struct {
	ID           string `db:"id" json:"orderId"`
	Name         string `db:"customer_name" json:"name"`
	Phone        string `db:"phone" json:"phone"`
	Email        string `db:"email" json:"email"`
	Address      string `db:"address" json:"address"`
	AccountLast5 string `db:"account_last5" json:"accountLastFive"`
	Facebook     string `db:"facebook" json:"facebook,omitempty"`
	Remark       string `db:"remark" json:"remark,omitempty"`
	Summary      string `db:"summary" json:"summary"`
	Total        int    `db:"total" json:"total"`
	CreatedAt    string `db:"created_at" json:"createdAt"`
}
