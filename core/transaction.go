package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/holiman/uint256"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
)

const (
	// TransactionKeyReward reward minted :uint256
	TransactionKeyReward = "reward"
	// TransactionKeyInterest interest accrued on the pool :uint256
	TransactionKeyInterest = "interest"
	// TransactionKeyReserve reserve cut :uint256
	TransactionKeyReserve = "reserve"
	// TransactionKeyRequested amount asked for :uint256
	TransactionKeyRequested = "requested"
	// TransactionKeyRepay repaid debt :uint256
	TransactionKeyRepay = "repay"
	// TransactionKeySeize seized collateral :uint256
	TransactionKeySeize = "seize"
	// TransactionKeyCollateralAsset collateral asset id :string
	TransactionKeyCollateralAsset = "collateral_asset"
	// TransactionKeyBorrower liquidated user :string
	TransactionKeyBorrower = "borrower"
	// TransactionKeyHealthBefore health factor before :uint256
	TransactionKeyHealthBefore = "health_before"
	// TransactionKeyHealthAfter health factor after :uint256
	TransactionKeyHealthAfter = "health_after"
	// TransactionKeyBlock block number :uint64
	TransactionKeyBlock = "block"
	// TransactionKeyBorrowRate borrow rate after the operation :uint256
	TransactionKeyBorrowRate = "borrow_rate"
	// TransactionKeyDepositRate deposit rate after the operation :uint256
	TransactionKeyDepositRate = "deposit_rate"
)

// TransactionExtraData extra data
type TransactionExtraData map[string]interface{}

// NewTransactionExtra new transaction extra instance
func NewTransactionExtra() TransactionExtraData {
	d := make(TransactionExtraData)
	return d
}

// Put put data, uint256 values are stored as decimal strings
func (t TransactionExtraData) Put(key string, value interface{}) {
	if v, ok := value.(*uint256.Int); ok {
		value = v.Dec()
	}

	t[key] = value
}

// Format format as []byte by default
func (t TransactionExtraData) Format() []byte {
	bs, e := json.Marshal(t)
	if e != nil {
		return []byte("{}")
	}

	return bs
}

// Transaction engine event, written in the same commit as the state it describes
type Transaction struct {
	ID           int64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	TraceID      string         `sql:"size:36;unique_index:idx_transactions_trace_id" json:"trace_id,omitempty"`
	Action       ActionType     `json:"action,omitempty"`
	UserID       string         `sql:"size:64;index:idx_transactions_user_id" json:"user_id,omitempty"`
	AssetID      string         `sql:"size:36;index:idx_transactions_asset_id" json:"asset_id,omitempty"`
	Amount       *uint256.Int   `sql:"type:varchar(80)" json:"amount,omitempty"`
	Participants pq.StringArray `sql:"type:varchar(1024)" json:"participants,omitempty"`
	Data         types.JSONText `sql:"type:TEXT" json:"data,omitempty"`
	CreatedAt    time.Time      `sql:"default:CURRENT_TIMESTAMP;index:idx_transactions_created_at" json:"created_at,omitempty"`
}

// SetExtraData set extra data
func (t *Transaction) SetExtraData(extra TransactionExtraData) {
	data := []byte("{}")
	if extra != nil {
		data = extra.Format()
	}

	t.Data = data
}

// ExtraData decode extra data
func (t *Transaction) ExtraData() TransactionExtraData {
	extra := NewTransactionExtra()
	if len(t.Data) > 0 {
		_ = json.Unmarshal(t.Data, &extra)
	}

	return extra
}

// ITransactionStore transaction store interface
type ITransactionStore interface {
	FindByTraceID(ctx context.Context, traceID string) (*Transaction, bool, error)
	List(ctx context.Context, fromID int64, limit int) ([]*Transaction, error)
	ListByUser(ctx context.Context, userID string, fromID int64, limit int) ([]*Transaction, error)
}
