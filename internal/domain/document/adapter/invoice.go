package adapter

import (
	"github.com/lenses/backend/internal/domain/document"
	"github.com/lenses/backend/internal/domain/document/record"
	"github.com/lenses/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

const defaultInvoiceStatus = "pending"

var (
	invoiceNumberField = record.Field{"invoiceNumber", "number", "invoiceNo", "invoiceId", "id"}
	issueDateField     = record.Field{"issueDate", "date", "invoiceDate", "issuedAt"}
	dueDateField       = record.Field{"dueDate", "paymentDue", "due"}
	fromField          = record.Field{"from", "seller", "vendor", "issuer", "company"}
	billToField        = record.Field{"billTo", "client", "customer", "to"}

	lineItemsGroup       = record.Field{"items", "lineItems", "entries"}
	lineDescriptionField = record.Field{"description", "name", "item", "title", "service"}
	quantityField        = record.Field{"quantity", "qty", "hours", "units"}
	unitPriceField       = record.Field{"unitPrice", "unitCost", "price", "rate"}
	lineAmountField      = record.Field{"amount", "total", "lineTotal"}

	subtotalField     = record.Field{"subtotal", "subTotal"}
	taxField          = record.Field{"tax", "taxAmount"}
	taxRateField      = record.Field{"taxRate", "taxPercent", "vatRate"}
	discountField     = record.Field{"discount", "discountAmount"}
	discountRateField = record.Field{"discountRate", "discountPercent"}
	totalField        = record.Field{"total", "totalAmount", "amountDue"}
	amountPaidField   = record.Field{"amountPaid", "paid", "amountReceived"}
	balanceField      = record.Field{"balanceDue", "balance"}

	termsField               = record.Field{"terms", "paymentTerms"}
	paymentInstructionsField = record.Field{"paymentInstructions", "bankDetails"}
	invoiceNotesField        = record.Field{"notes", "memo"}
)

// InvoiceTotals is the result of the invoice derivation chain.
// Explicit values on the record always win over derived ones.
type InvoiceTotals struct {
	Currency valueobject.Currency

	// LineSum is the sum of line item amounts, regardless of an explicit subtotal
	LineSum      decimal.Decimal
	HasLineItems bool

	Subtotal         decimal.Decimal
	ExplicitSubtotal bool

	Tax        decimal.Decimal
	TaxRate    decimal.Decimal
	HasTaxRate bool

	Discount decimal.Decimal

	Total decimal.Decimal

	AmountPaid    decimal.Decimal
	HasAmountPaid bool
	Balance       decimal.Decimal
}

// Money wraps an amount in the invoice currency
func (t InvoiceTotals) Money(amount decimal.Decimal) valueobject.Money {
	return valueobject.NewMoney(amount, t.Currency)
}

// SubtotalMismatch reports whether an explicit subtotal disagrees with the line items
func (t InvoiceTotals) SubtotalMismatch() bool {
	return t.ExplicitSubtotal && t.HasLineItems && !t.Subtotal.Equal(t.LineSum)
}

// ComputeInvoiceTotals runs the invoice derivation chain:
//
//	subtotal = explicit subtotal, else sum of item amount|total, else qty * unit price
//	tax      = explicit tax, else subtotal * taxRate / 100
//	discount = explicit discount, else subtotal * discountRate / 100
//	total    = explicit total, else subtotal + tax - discount
//
// A present but malformed number counts as an explicit zero.
func ComputeInvoiceTotals(rec record.Record) InvoiceTotals {
	t := InvoiceTotals{Currency: valueobject.ParseCurrency(currencyField.StringOr(rec, ""))}

	lineSum := valueobject.Zero(t.Currency)
	if g, ok := lineItemsGroup.Group(rec); ok && g.Structured() {
		t.HasLineItems = true
		for _, it := range g.Items() {
			lineSum = lineSum.Add(lineAmount(it.Record, t.Currency))
		}
	}

	subtotal, explicit := explicitOr(subtotalField, rec, lineSum)
	t.ExplicitSubtotal = explicit

	t.TaxRate, t.HasTaxRate = taxRateField.Decimal(rec)
	tax, _ := explicitOr(taxField, rec, subtotal.CalculatePercentage(t.TaxRate))

	discountRate, _ := discountRateField.Decimal(rec)
	discount, _ := explicitOr(discountField, rec, subtotal.CalculatePercentage(discountRate))

	total, _ := explicitOr(totalField, rec, subtotal.Add(tax).Subtract(discount))

	t.LineSum = lineSum.Amount()
	t.Subtotal = subtotal.Amount()
	t.Tax = tax.Amount()
	t.Discount = discount.Amount()
	t.Total = total.Amount()

	if amountPaidField.Present(rec) {
		paid := t.Money(amountPaidField.DecimalOr(rec, decimal.Zero))
		balance, _ := explicitOr(balanceField, rec, total.Subtract(paid))
		t.HasAmountPaid = true
		t.AmountPaid = paid.Amount()
		t.Balance = balance.Amount()
	}
	return t
}

// explicitOr returns the field's amount when present (zero if malformed), or derived
func explicitOr(f record.Field, rec record.Record, derived valueobject.Money) (valueobject.Money, bool) {
	if !f.Present(rec) {
		return derived, false
	}
	return valueobject.NewMoney(f.DecimalOr(rec, decimal.Zero), derived.Currency()), true
}

// lineQuantity defaults to 1 when absent and 0 when malformed
func lineQuantity(item record.Record) decimal.Decimal {
	if !quantityField.Present(item) {
		return decimal.NewFromInt(1)
	}
	return quantityField.DecimalOr(item, decimal.Zero)
}

// lineAmount prefers an explicit per-item amount over quantity * unit price
func lineAmount(item record.Record, currency valueobject.Currency) valueobject.Money {
	unitPrice := valueobject.NewMoney(unitPriceField.DecimalOr(item, decimal.Zero), currency)
	amount, _ := explicitOr(lineAmountField, item, unitPrice.Multiply(lineQuantity(item)))
	return amount
}

// InvoiceAdapter builds invoice documents
type InvoiceAdapter struct{}

// NewInvoiceAdapter creates a new InvoiceAdapter
func NewInvoiceAdapter() *InvoiceAdapter {
	return &InvoiceAdapter{}
}

// ArtifactType implements Adapter
func (a *InvoiceAdapter) ArtifactType() document.ArtifactType {
	return document.ArtifactTypeInvoice
}

// Build implements Adapter
func (a *InvoiceAdapter) Build(rec record.Record) []document.Section {
	b := document.NewBuilder()
	totals := ComputeInvoiceTotals(rec)

	b.Meta(
		meta("Invoice #", invoiceNumberField, rec),
		meta("Issue Date", issueDateField, rec),
		meta("Due Date", dueDateField, rec),
		document.MetaField{Label: "Status", Value: status(rec, defaultInvoiceStatus)},
		meta("Currency", currencyField, rec),
	)

	a.party(b, "From", fromField, rec)
	a.party(b, "Bill To", billToField, rec)

	if g, ok := lineItemsGroup.Group(rec); ok {
		if g.Structured() {
			rows := make([][]string, 0, g.Len())
			for _, it := range g.Items() {
				rows = append(rows, []string{
					lineDescriptionField.Display(it.Record),
					lineQuantity(it.Record).String(),
					totals.Money(unitPriceField.DecimalOr(it.Record, decimal.Zero)).Format(),
					lineAmount(it.Record, totals.Currency).Format(),
				})
			}
			b.Table("Line Items", []string{"Description", "Qty", "Unit Price", "Amount"}, rows)
		} else {
			b.List("Line Items", g.Texts(lineDescriptionField))
		}
	}

	if totals.HasLineItems || subtotalField.Present(rec) || taxField.Present(rec) || totalField.Present(rec) {
		b.Table("Summary", []string{"Description", "Amount"}, a.summaryRows(totals))
	}

	textOrList(b, "Payment Terms", termsField, rec)
	textOrList(b, "Payment Instructions", paymentInstructionsField, rec)
	textOrList(b, "Notes", invoiceNotesField, rec)

	return b.Sections()
}

func (a *InvoiceAdapter) party(b *document.Builder, heading string, f record.Field, rec record.Record) {
	if nested, ok := f.Record(rec); ok {
		b.List(heading, partyLines(nested))
		return
	}
	if s, ok := f.String(rec); ok {
		b.List(heading, []string{s})
	}
}

func (a *InvoiceAdapter) summaryRows(t InvoiceTotals) [][]string {
	rows := [][]string{{"Subtotal", t.Money(t.Subtotal).Format()}}
	if !t.Discount.IsZero() {
		rows = append(rows, []string{"Discount", t.Money(t.Discount.Neg()).Format()})
	}
	taxLabel := "Tax"
	if t.HasTaxRate {
		taxLabel = "Tax (" + valueobject.FormatPercent(t.TaxRate) + "%)"
	}
	rows = append(rows,
		[]string{taxLabel, t.Money(t.Tax).Format()},
		[]string{"Total", t.Money(t.Total).Format()},
	)
	if t.HasAmountPaid {
		rows = append(rows,
			[]string{"Amount Paid", t.Money(t.AmountPaid).Format()},
			[]string{"Balance Due", t.Money(t.Balance).Format()},
		)
	}
	return rows
}
