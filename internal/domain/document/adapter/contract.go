package adapter

import (
	"strconv"

	"github.com/lenses/backend/internal/domain/document"
	"github.com/lenses/backend/internal/domain/document/record"
	"github.com/lenses/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

const (
	defaultContractStatus = "draft"
	signatureSuffix       = " — Signature: ____________________  Date: ____________"
)

var (
	contractTitleField  = record.Field{"title", "name", "contractName"}
	contractNumberField = record.Field{"contractNumber", "number", "contractId", "id"}
	effectiveDateField  = record.Field{"effectiveDate", "startDate", "date"}
	expirationDateField = record.Field{"expirationDate", "endDate", "expiryDate", "termEnd"}
	governingLawField   = record.Field{"governingLaw", "jurisdiction"}
	contractValueField  = record.Field{"value", "contractValue", "amount", "totalValue"}

	partiesGroup   = record.Field{"parties", "signatories"}
	partyNameField = record.Field{"name", "party", "company", "fullName"}
	partyRoleField = record.Field{"role", "type", "title"}
	partyCols      = []record.Field{partyNameField, partyRoleField, addressField, emailField}

	recitalsField = record.Field{"recitals", "background", "whereas"}

	scopeField   = record.Field{"scope", "deliverables", "scopeOfWork"}
	scopeCols    = []record.Field{{"name", "deliverable", "description", "title"}, {"dueDate", "due", "date", "deadline"}}
	clausesField = record.Field{"clauses", "sections", "terms", "provisions"}

	clauseNumberField = record.Field{"number", "clauseNumber"}
	clauseTitleField  = record.Field{"title", "heading", "name"}
	clauseBodyField   = record.Field{"text", "body", "content", "description"}
	subClausesGroup   = record.Field{"subclauses", "items", "points"}

	paymentScheduleGroup = record.Field{"paymentSchedule", "payments", "milestones"}
	milestoneNameField   = record.Field{"milestone", "name", "description", "title"}
	milestoneDueField    = record.Field{"dueDate", "due", "date"}
	milestoneAmountField = record.Field{"amount", "value"}

	terminationField     = record.Field{"termination", "terminationClause"}
	confidentialityField = record.Field{"confidentiality", "nda"}
)

// ContractAdapter builds contract documents. A signature block is always
// appended, with two placeholder parties when none are supplied.
type ContractAdapter struct{}

// NewContractAdapter creates a new ContractAdapter
func NewContractAdapter() *ContractAdapter {
	return &ContractAdapter{}
}

// ArtifactType implements Adapter
func (a *ContractAdapter) ArtifactType() document.ArtifactType {
	return document.ArtifactTypeContract
}

// Build implements Adapter
func (a *ContractAdapter) Build(rec record.Record) []document.Section {
	b := document.NewBuilder()
	currency := valueobject.ParseCurrency(currencyField.StringOr(rec, ""))

	var value string
	if contractValueField.Present(rec) {
		value = valueobject.NewMoney(contractValueField.DecimalOr(rec, decimal.Zero), currency).Format()
	}
	b.Meta(
		meta("Contract", contractTitleField, rec),
		meta("Contract #", contractNumberField, rec),
		meta("Effective Date", effectiveDateField, rec),
		meta("Expiration Date", expirationDateField, rec),
		meta("Governing Law", governingLawField, rec),
		document.MetaField{Label: "Value", Value: value},
		document.MetaField{Label: "Status", Value: status(rec, defaultContractStatus)},
	)

	parties, hasParties := partiesGroup.Group(rec)
	if hasParties {
		groupSection(b, "Parties", parties, []string{"Party", "Role", "Address", "Email"}, partyCols)
	}

	textOrList(b, "Recitals", recitalsField, rec)

	if g, ok := collectionGroup(scopeField, rec); ok {
		groupSection(b, "Scope of Work", g, []string{"Deliverable", "Due Date"}, scopeCols)
	} else {
		textOrList(b, "Scope of Work", scopeField, rec)
	}

	if g, ok := collectionGroup(clausesField, rec); ok {
		a.clauses(b, g)
	} else {
		textOrList(b, "Terms and Conditions", clausesField, rec)
	}

	if g, ok := paymentScheduleGroup.Group(rec); ok {
		if g.Structured() {
			rows := make([][]string, 0, g.Len())
			for _, it := range g.Items() {
				rows = append(rows, []string{
					milestoneNameField.Display(it.Record),
					milestoneDueField.Display(it.Record),
					valueobject.NewMoney(milestoneAmountField.DecimalOr(it.Record, decimal.Zero), currency).Format(),
				})
			}
			b.Table("Payment Schedule", []string{"Milestone", "Due Date", "Amount"}, rows)
		} else {
			b.List("Payment Schedule", g.Texts(itemTextField))
		}
	}

	textOrList(b, "Termination", terminationField, rec)
	textOrList(b, "Confidentiality", confidentialityField, rec)

	b.List("Signatures", signatureLines(parties, hasParties))

	return b.Sections()
}

// clauses emits numbered clause sub-headings, or one list for plain clauses
func (a *ContractAdapter) clauses(b *document.Builder, g record.Group) {
	b.Group("Terms and Conditions", func(cb *document.Builder) {
		if !g.Structured() {
			cb.List("", g.Texts(itemTextField))
			return
		}
		for i, it := range g.Items() {
			if it.Plain() {
				cb.List("", []string{it.Text})
				continue
			}
			clause := it.Record
			number := clauseNumberField.StringOr(clause, strconv.Itoa(i+1))
			title := clauseTitleField.StringOr(clause, "Clause "+strconv.Itoa(i+1))
			cb.Group(number+". "+title, func(sb *document.Builder) {
				if s, ok := clauseBodyField.String(clause); ok {
					sb.Text("", s)
				}
				if sub, ok := subClausesGroup.Group(clause); ok {
					sb.List("", sub.Texts(clauseBodyField))
				}
			})
		}
	})
}

// signatureLines renders one signature line per party, defaulting to
// "Party A" and "Party B"
func signatureLines(parties record.Group, ok bool) []string {
	if !ok {
		return []string{
			"Party A" + signatureSuffix,
			"Party B" + signatureSuffix,
		}
	}
	lines := make([]string, 0, parties.Len())
	for i, it := range parties.Items() {
		name := partyNameField.StringOr(it.Record, placeholderParty(i))
		if role, ok := partyRoleField.String(it.Record); ok && !it.Plain() {
			name += " (" + role + ")"
		}
		lines = append(lines, name+signatureSuffix)
	}
	return lines
}

func placeholderParty(i int) string {
	if i < 26 {
		return "Party " + string(rune('A'+i))
	}
	return "Party " + strconv.Itoa(i+1)
}
