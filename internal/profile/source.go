package profile

import "github.com/seberle/plume/internal/masto"

type sourceKind int

const (
	sourceByID sourceKind = iota
	sourceByAcct
	sourceKnown
)

// Source selects how the store locates its account: by id, by handle, or
// from an already materialized account that needs no initial fetch.
type Source struct {
	kind    sourceKind
	id      string
	acct    string
	account *masto.Account
}

// ByID opens a profile from a bare account id.
func ByID(id string) Source {
	return Source{kind: sourceByID, id: id}
}

// ByAcct opens a profile from a handle like "alice@example.social". The
// first fetch resolves it to an account id.
func ByAcct(acct string) Source {
	return Source{kind: sourceByAcct, acct: acct}
}

// Known opens a profile from an account the caller already holds. The store
// starts in the loaded state without a network call.
func Known(account masto.Account) Source {
	return Source{kind: sourceKnown, id: account.ID, account: &account}
}
