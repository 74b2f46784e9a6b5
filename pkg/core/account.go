package core

// AccountType tags the role of an account in the ledger.
type AccountType uint8

const (
	// User is an ordinary token-holding account.
	User AccountType = iota

	// Contract marks an account owned by on-chain code.
	Contract

	// Validator marks an account that takes part in block validation.
	Validator
)

func (t AccountType) String() string {
	switch t {
	case User:
		return "user"
	case Contract:
		return "contract"
	case Validator:
		return "validator"
	default:
		return "unknown"
	}
}

// ValidatorRecord counts the blocks a validator account has judged. The
// ledger rules in this package never touch these counters; a consensus layer
// would.
type ValidatorRecord struct {
	CorrectlyValidatedBlocks   uint64
	IncorrectlyValidatedBlocks uint64
}

// Account is the mutable per-identifier ledger record: a token balance plus
// a free-form string store. Balances are uint64 and every update is
// overflow-checked, so a negative or wrapped balance is never observable.
// Accounts are created by transactions (or WorldState.CreateAccount) and
// never deleted.
type Account struct {
	Store     map[string]string
	Type      AccountType
	Tokens    uint64
	Validator *ValidatorRecord // set only when Type is Validator
}

// NewAccount returns a fresh account with a zero balance and an empty store.
func NewAccount(accountType AccountType) *Account {
	acc := &Account{
		Store: make(map[string]string),
		Type:  accountType,
	}
	if accountType == Validator {
		acc.Validator = &ValidatorRecord{}
	}
	return acc
}

// Clone returns a deep copy sharing no mutable state with the original.
func (a *Account) Clone() *Account {
	clone := &Account{
		Store:  make(map[string]string, len(a.Store)),
		Type:   a.Type,
		Tokens: a.Tokens,
	}
	for k, v := range a.Store {
		clone.Store[k] = v
	}
	if a.Validator != nil {
		record := *a.Validator
		clone.Validator = &record
	}
	return clone
}
