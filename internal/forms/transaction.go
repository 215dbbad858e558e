package forms

import (
	"net/url"
	"time"

	"github.com/oficont/oficont/internal/models"
	"github.com/oficont/oficont/validation"
	"github.com/shopspring/decimal"
)

// Amount column is decimal(15,2).
const (
	amountDigits = 15
	amountPlaces = 2
)

// AllowedCategories returns the categories a transaction of type t may use.
// Income and expense transactions are limited to categories of the same type;
// any other type, including none, may use every category.
func AllowedCategories(all []models.Category, t models.TransactionType) []models.Category {
	if t != models.TransactionIncome && t != models.TransactionExpense {
		return all
	}
	out := make([]models.Category, 0, len(all))
	for _, c := range all {
		if string(c.Type) == string(t) {
			out = append(out, c)
		}
	}
	return out
}

// CategoryFilterType picks the transaction type that drives category filtering.
// A submitted tipo_transaccion wins, even when empty; otherwise the stored record's
// type is used.
func CategoryFilterType(data url.Values, existing *models.Transaction) models.TransactionType {
	if _, ok := data["tipo_transaccion"]; ok {
		return models.TransactionType(data.Get("tipo_transaccion"))
	}
	if existing != nil {
		return existing.Type
	}
	return ""
}

// TransactionChoices are the records a submission may reference.
type TransactionChoices struct {
	Clients    []models.Client
	Categories []models.Category
}

// TransactionForm carries the fields of the transaction create/edit screen.
// The receipt upload is handled separately.
type TransactionForm struct {
	ClientID    string
	CategoryID  string
	Type        string
	Amount      string
	Description string
	Date        string
	Status      string
}

func NewTransactionForm() TransactionForm {
	return TransactionForm{Status: string(models.StatusPending)}
}

func TransactionFormFromValues(vals url.Values) TransactionForm {
	return TransactionForm{
		ClientID:    field(vals, "cliente"),
		CategoryID:  field(vals, "categoria"),
		Type:        field(vals, "tipo_transaccion"),
		Amount:      field(vals, "monto"),
		Description: field(vals, "descripcion"),
		Date:        field(vals, "fecha_transaccion"),
		Status:      field(vals, "estado"),
	}
}

func TransactionFormFromModel(t *models.Transaction) TransactionForm {
	return TransactionForm{
		ClientID:    formatID(t.ClientID),
		CategoryID:  formatID(t.CategoryID),
		Type:        string(t.Type),
		Amount:      t.Amount.StringFixed(amountPlaces),
		Description: t.Description,
		Date:        t.DateString(),
		Status:      string(t.Status),
	}
}

type transactionData struct {
	clientID   uint
	categoryID uint
	amount     decimal.Decimal
	date       time.Time
}

func (f TransactionForm) validate(ch TransactionChoices) (transactionData, validation.Violations) {
	v := validation.Violations{}
	var d transactionData
	d.clientID = choiceID("cliente", f.ClientID, clientAllowed(ch.Clients), v)
	d.categoryID = choiceID("categoria", f.CategoryID, categoryAllowed(ch.Categories), v)
	validation.Required("tipo_transaccion", f.Type, v)
	validation.OneOf("tipo_transaccion", f.Type, models.TransactionTypes, v)
	d.amount = validation.Decimal("monto", f.Amount, amountDigits, amountPlaces, v)
	validation.Required("descripcion", f.Description, v)
	d.date, _ = validation.Date("fecha_transaccion", f.Date, v)
	validation.Required("estado", f.Status, v)
	validation.OneOf("estado", f.Status, models.TransactionStatuses, v)
	return d, v
}

// Validate checks the submission against ch without touching any record.
func (f TransactionForm) Validate(ch TransactionChoices) validation.Violations {
	_, v := f.validate(ch)
	return v
}

// Bind validates the submission and, when valid, copies it into t.
// CreatedByID and ReceiptPath are never touched.
func (f TransactionForm) Bind(t *models.Transaction, ch TransactionChoices) validation.Violations {
	d, v := f.validate(ch)
	if !v.Empty() {
		return v
	}
	t.ClientID = d.clientID
	t.Client = nil
	t.CategoryID = d.categoryID
	t.Category = nil
	t.Type = models.TransactionType(f.Type)
	t.Amount = d.amount.Round(amountPlaces)
	t.Description = f.Description
	t.Date = d.date
	t.Status = models.TransactionStatus(f.Status)
	return v
}
