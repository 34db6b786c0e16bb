package models

import (
	"encoding/json"
	"reflect"
)

// Model is a resource that can be exported.
type Model interface {
	Export() (json.RawMessage, error) // All instances of this model for export
}

// Registry is a slice of all models available.
//
// Operations that affect all models iterate over it instead of listing
// every model explicitly. Models are ordered so that deleting them in
// this order never violates a foreign key.
var Registry = []Model{
	ReconciliationItem{},
	Reconciliation{},
	Voucher{},
	Replenishment{},
	Charge{},
	ManualShare{},
	Budget{},
	ExtraordinaryPlan{},
	PaymentAgreement{},
	Transaction{},
	Check{},
	Checkbook{},
	Account{},
	Unit{},
	Condominium{},
}

// Name returns the name a model is exported with.
func Name(m Model) string {
	return reflect.TypeOf(m).Name()
}

// export returns all instances of T ordered by creation time.
func export[T any]() (json.RawMessage, error) {
	var resources []T
	err := DB.Order("created_at ASC").Find(&resources).Error
	if err != nil {
		return nil, err
	}

	return json.Marshal(resources)
}

func (Condominium) Export() (json.RawMessage, error)        { return export[Condominium]() }
func (Unit) Export() (json.RawMessage, error)               { return export[Unit]() }
func (Account) Export() (json.RawMessage, error)            { return export[Account]() }
func (Checkbook) Export() (json.RawMessage, error)          { return export[Checkbook]() }
func (Check) Export() (json.RawMessage, error)              { return export[Check]() }
func (Transaction) Export() (json.RawMessage, error)        { return export[Transaction]() }
func (Reconciliation) Export() (json.RawMessage, error)     { return export[Reconciliation]() }
func (ReconciliationItem) Export() (json.RawMessage, error) { return export[ReconciliationItem]() }
func (Budget) Export() (json.RawMessage, error)             { return export[Budget]() }
func (ExtraordinaryPlan) Export() (json.RawMessage, error)  { return export[ExtraordinaryPlan]() }
func (PaymentAgreement) Export() (json.RawMessage, error)   { return export[PaymentAgreement]() }
func (ManualShare) Export() (json.RawMessage, error)        { return export[ManualShare]() }
func (Charge) Export() (json.RawMessage, error)             { return export[Charge]() }
func (Voucher) Export() (json.RawMessage, error)            { return export[Voucher]() }
func (Replenishment) Export() (json.RawMessage, error)      { return export[Replenishment]() }
