package forms

import (
	"net/url"
	"testing"
	"time"

	"github.com/oficont/oficont/internal/models"
	"github.com/oficont/oficont/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCategories = []models.Category{
	{ID: 1, Name: "Honorarios", Type: models.CategoryIncome},
	{ID: 2, Name: "Alquiler", Type: models.CategoryExpense},
	{ID: 3, Name: "Caja", Type: models.CategoryAsset},
	{ID: 4, Name: "Ventas", Type: models.CategoryIncome},
}

func categoryIDs(cats []models.Category) []uint {
	ids := make([]uint, 0, len(cats))
	for _, c := range cats {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestAllowedCategories(t *testing.T) {
	tests := []struct {
		name string
		typ  models.TransactionType
		want []uint
	}{
		{"income", models.TransactionIncome, []uint{1, 4}},
		{"expense", models.TransactionExpense, []uint{2}},
		{"transfer", models.TransactionTransfer, []uint{1, 2, 3, 4}},
		{"none", "", []uint{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, categoryIDs(AllowedCategories(testCategories, tt.typ)))
		})
	}
}

func TestCategoryFilterType(t *testing.T) {
	stored := &models.Transaction{ID: 9, Type: models.TransactionExpense}

	assert.Equal(t, models.TransactionIncome,
		CategoryFilterType(url.Values{"tipo_transaccion": {"ingreso"}}, stored), "submitted value wins")
	assert.Equal(t, models.TransactionType(""),
		CategoryFilterType(url.Values{"tipo_transaccion": {""}}, stored), "present but empty still wins")
	assert.Equal(t, models.TransactionExpense, CategoryFilterType(nil, stored))
	assert.Equal(t, models.TransactionType(""), CategoryFilterType(url.Values{}, nil))
}

func TestClientForm_Validate(t *testing.T) {
	valid := url.Values{
		"nombre": {"Comercial López"}, "tipo_cliente": {"empresa"}, "nit": {"1234567-8"},
		"direccion": {"Zona 1"}, "telefono": {"5555-5555"}, "email": {"info@lopez.gt"}, "activo": {"on"},
	}
	f := ClientFormFromValues(valid)
	require.True(t, f.Validate().Empty())

	var c models.Client
	f.Apply(&c)
	assert.Equal(t, models.ClientCompany, c.Type)
	assert.True(t, c.Active)

	bad := url.Values{"tipo_cliente": {"gobierno"}, "email": {"no-es-correo"}}
	v := ClientFormFromValues(bad).Validate()
	assert.Equal(t, "required", v["nombre"])
	assert.Equal(t, "invalid_choice", v["tipo_cliente"])
	assert.Equal(t, "invalid_email", v["email"])
	assert.False(t, ClientFormFromValues(bad).Active)
}

func TestNewClientForm_Defaults(t *testing.T) {
	f := NewClientForm()
	assert.Equal(t, "individual", f.Type)
	assert.True(t, f.Active)
}

func TestTransactionForm_Bind(t *testing.T) {
	choices := TransactionChoices{
		Clients:    []models.Client{{ID: 7, Name: "Ana", Active: true}},
		Categories: AllowedCategories(testCategories, models.TransactionIncome),
	}
	vals := url.Values{
		"cliente": {"7"}, "categoria": {"1"}, "tipo_transaccion": {"ingreso"}, "monto": {"1500.5"},
		"descripcion": {"Honorarios de marzo"}, "fecha_transaccion": {"2024-03-15"}, "estado": {"pendiente"},
	}
	tx := models.Transaction{CreatedByID: 3, ReceiptPath: "comprobantes/a.pdf"}
	v := TransactionFormFromValues(vals).Bind(&tx, choices)
	require.True(t, v.Empty(), "violations: %v", v)

	assert.Equal(t, uint(7), tx.ClientID)
	assert.Equal(t, uint(1), tx.CategoryID)
	assert.True(t, decimal.RequireFromString("1500.50").Equal(tx.Amount))
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), tx.Date)
	assert.Equal(t, uint(3), tx.CreatedByID)
	assert.Equal(t, "comprobantes/a.pdf", tx.ReceiptPath)
}

func TestTransactionForm_RejectsOutOfScopeChoices(t *testing.T) {
	choices := TransactionChoices{
		Clients:    []models.Client{{ID: 7, Active: true}},
		Categories: AllowedCategories(testCategories, models.TransactionExpense),
	}
	vals := url.Values{
		"cliente": {"8"}, "categoria": {"1"}, "tipo_transaccion": {"gasto"}, "monto": {"-3"},
		"descripcion": {"x"}, "fecha_transaccion": {"2024-02-30"}, "estado": {"archivado"},
	}
	tx := models.Transaction{Description: "sin cambios"}
	v := TransactionFormFromValues(vals).Bind(&tx, choices)

	assert.Equal(t, "invalid_choice", v["cliente"])
	assert.Equal(t, "invalid_choice", v["categoria"])
	assert.Equal(t, "must_be_non_negative", v["monto"])
	assert.Equal(t, "invalid_date", v["fecha_transaccion"])
	assert.Equal(t, "invalid_choice", v["estado"])
	assert.Equal(t, "sin cambios", tx.Description, "record untouched on failure")
}

func TestTransactionForm_AmountLimits(t *testing.T) {
	tests := []struct {
		amount string
		code   string
	}{
		{"", "required"},
		{"abc", "invalid_decimal"},
		{"1.234", "max_decimal_places"},
		{"12345678901234", "max_digits"},
		{"1234567890123.99", ""},
		{"0", ""},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			v := TransactionForm{Amount: tt.amount}.Validate(TransactionChoices{})
			assert.Equal(t, tt.code, v["monto"])
		})
	}
}

func TestTransactionFormFromModel(t *testing.T) {
	f := TransactionFormFromModel(&models.Transaction{
		ClientID: 2, CategoryID: 5, Type: models.TransactionExpense,
		Amount: decimal.NewFromInt(20), Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Status: models.StatusApproved,
	})
	assert.Equal(t, "2", f.ClientID)
	assert.Equal(t, "20.00", f.Amount)
	assert.Equal(t, "2024-01-02", f.Date)
}

func TestReportForm_Bind(t *testing.T) {
	clients := []models.Client{{ID: 1, Active: true}}

	t.Run("valid", func(t *testing.T) {
		var r models.Report
		v := ReportForm{ClientID: "1", Type: "balance_general", Start: "2024-01-01", End: "2024-12-31"}.Bind(&r, clients)
		require.True(t, v.Empty())
		assert.Equal(t, models.ReportBalanceSheet, r.Type)
		assert.Equal(t, 2024, r.PeriodEnd.Year())
	})

	t.Run("reversed period", func(t *testing.T) {
		var r models.Report
		v := ReportForm{ClientID: "1", Type: "libro_diario", Start: "2024-05-02", End: "2024-05-01"}.Bind(&r, clients)
		assert.Equal(t, "period_order", v[validation.NonField])
		assert.Zero(t, r.ClientID)
	})

	t.Run("missing fields", func(t *testing.T) {
		var r models.Report
		v := ReportFormFromValues(url.Values{"cliente": {"1"}}).Bind(&r, clients)
		assert.Equal(t, "missing_fields", v[validation.NonField])
		assert.Equal(t, "required", v["fecha_fin"])
	})

	t.Run("inactive client", func(t *testing.T) {
		var r models.Report
		v := ReportForm{ClientID: "2", Type: "libro_mayor", Start: "2024-01-01", End: "2024-01-31"}.Bind(&r, clients)
		assert.Equal(t, "invalid_choice", v["cliente"])
	})
}

func TestContactUpdateFromValues(t *testing.T) {
	u, v := ContactUpdateFromValues(url.Values{"nombre_oficina": {"Nueva"}, "telefono_oficina": {""}})
	require.True(t, v.Empty())
	require.NotNil(t, u.OfficeName)
	assert.Equal(t, "Nueva", *u.OfficeName)
	require.NotNil(t, u.OfficePhone)
	assert.Equal(t, "", *u.OfficePhone)
	assert.Nil(t, u.OfficeAddress)
	assert.Nil(t, u.OfficeEmail)

	_, v = ContactUpdateFromValues(url.Values{"email_oficina": {"oficina"}})
	assert.Equal(t, "invalid_email", v["email_oficina"])
}

func TestSystemConfigForm(t *testing.T) {
	f := SystemConfigFormFromValues(url.Values{"moneda": {"USD"}}, models.DefaultSystemConfig())
	require.True(t, f.Validate().Empty())
	assert.Equal(t, "USD", f.Currency)
	assert.Equal(t, "OFICONT - Oficina Contable", f.OfficeName)

	f = SystemConfigFormFromValues(url.Values{"nombre_oficina": {""}}, models.DefaultSystemConfig())
	assert.Equal(t, "required", f.Validate()["nombre_oficina"])
}

func TestCategoryForm(t *testing.T) {
	f := CategoryFormFromValues(url.Values{"nombre": {"Viáticos"}, "descripcion": {"Gastos de viaje"}, "tipo": {"gasto"}})
	require.True(t, f.Validate().Empty())
	var c models.Category
	f.Apply(&c)
	assert.Equal(t, models.CategoryExpense, c.Type)

	assert.Equal(t, "invalid_choice", CategoryForm{Name: "x", Description: "y", Type: "capital"}.Validate()["tipo"])
}
