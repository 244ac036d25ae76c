package captable

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Record kinds of the cap table JSONL format.
const (
	kindCompany     = "company"
	kindClass       = "class"
	kindPlan        = "plan"
	kindShare       = "share"
	kindAward       = "award"
	kindConvertible = "convertible"
)

// company is the header record of a cap table file.
type company struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

func (c company) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("name", c.Name)
	w.Optional("currency", c.Currency)
	return w.MarshalJSON()
}

// jsonClass, jsonPlan and so on are the on-disk shape of each record.
type jsonClass struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Preference    decimal.Decimal `json:"preference"`
	Participating bool            `json:"participating"`
	Voting        bool            `json:"voting"`
	Seniority     int             `json:"seniority"`
}

func (c SecurityClass) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", c.ID)
	w.Optional("name", c.Name)
	if !c.LiquidationPreferenceMultiple.IsZero() {
		w.Append("preference", c.LiquidationPreferenceMultiple)
	}
	w.Optional("participating", c.Participating)
	w.Optional("voting", c.VotingRights)
	w.Optional("seniority", c.SeniorityTier)
	return w.MarshalJSON()
}

func (c *SecurityClass) UnmarshalJSON(data []byte) error {
	var j jsonClass
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	*c = SecurityClass{
		ID:                            j.ID,
		Name:                          j.Name,
		LiquidationPreferenceMultiple: j.Preference,
		Participating:                 j.Participating,
		VotingRights:                  j.Voting,
		SeniorityTier:                 j.Seniority,
	}
	return nil
}

type jsonPlan struct {
	ID        string   `json:"id"`
	Total     Quantity `json:"total"`
	Allocated Quantity `json:"allocated"`
	Available Quantity `json:"available"`
	Issued    Quantity `json:"issued"`
}

func (p OptionPlan) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", p.ID)
	w.Append("total", p.TotalShares)
	w.Amount("allocated", p.AllocatedShares)
	w.Amount("available", p.AvailableShares)
	w.Amount("issued", p.IssuedShares)
	return w.MarshalJSON()
}

func (p *OptionPlan) UnmarshalJSON(data []byte) error {
	var j jsonPlan
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	*p = OptionPlan{
		ID:              j.ID,
		TotalShares:     j.Total,
		AllocatedShares: j.Allocated,
		AvailableShares: j.Available,
		IssuedShares:    j.Issued,
	}
	return nil
}

type jsonShare struct {
	ID            string   `json:"id"`
	Holder        string   `json:"holder"`
	Class         string   `json:"class"`
	Quantity      Quantity `json:"quantity"`
	Issued        Date     `json:"issued"`
	Consideration Money    `json:"consideration"`
}

func (e ShareLedgerEntry) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", e.ID)
	w.Append("holder", e.HolderID)
	w.Append("class", e.ClassID)
	w.Append("quantity", e.Quantity)
	w.Optional("issued", e.IssueDate)
	w.Amount("consideration", e.Consideration)
	return w.MarshalJSON()
}

func (e *ShareLedgerEntry) UnmarshalJSON(data []byte) error {
	var j jsonShare
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	*e = ShareLedgerEntry{
		ID:            j.ID,
		HolderID:      j.Holder,
		ClassID:       j.Class,
		Quantity:      j.Quantity,
		IssueDate:     j.Issued,
		Consideration: j.Consideration,
	}
	return nil
}

type jsonAward struct {
	ID           string    `json:"id"`
	Holder       string    `json:"holder"`
	Plan         string    `json:"plan"`
	Type         AwardType `json:"type"`
	Granted      Quantity  `json:"granted"`
	Exercised    Quantity  `json:"exercised"`
	Canceled     Quantity  `json:"canceled"`
	Expired      Quantity  `json:"expired"`
	GrantDate    Date      `json:"grantDate"`
	VestingStart Date      `json:"vestingStart"`
	Cliff        int       `json:"cliffMonths"`
	Total        int       `json:"totalMonths"`
	Strike       Money     `json:"strike"`
}

func (a EquityAward) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", a.ID)
	w.Append("holder", a.HolderID)
	w.Optional("plan", a.PlanID)
	w.Append("type", a.Type)
	w.Append("granted", a.QuantityGranted)
	w.Amount("exercised", a.QuantityExercised)
	w.Amount("canceled", a.QuantityCanceled)
	w.Amount("expired", a.QuantityExpired)
	w.Optional("grantDate", a.GrantDate)
	w.Optional("vestingStart", a.VestingStartDate)
	w.Optional("cliffMonths", a.CliffMonths)
	w.Optional("totalMonths", a.TotalMonths)
	w.Amount("strike", a.StrikePrice)
	return w.MarshalJSON()
}

func (a *EquityAward) UnmarshalJSON(data []byte) error {
	var j jsonAward
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	*a = EquityAward{
		ID:                j.ID,
		HolderID:          j.Holder,
		PlanID:            j.Plan,
		Type:              j.Type,
		QuantityGranted:   j.Granted,
		QuantityExercised: j.Exercised,
		QuantityCanceled:  j.Canceled,
		QuantityExpired:   j.Expired,
		GrantDate:         j.GrantDate,
		VestingStartDate:  j.VestingStart,
		CliffMonths:       j.Cliff,
		TotalMonths:       j.Total,
		StrikePrice:       j.Strike,
	}
	return nil
}

type jsonConvertible struct {
	ID          string          `json:"id"`
	Holder      string          `json:"holder"`
	Type        ConvertibleType `json:"type"`
	Framework   string          `json:"framework"`
	Principal   Money           `json:"principal"`
	Issued      Date            `json:"issued"`
	Discount    decimal.Decimal `json:"discount"`
	Cap         Money           `json:"cap"`
	Interest    decimal.Decimal `json:"interest"`
	Compounding Compounding     `json:"compounding"`
	PostMoney   bool            `json:"postMoney"`
	Converted   bool            `json:"converted"`
}

func (c ConvertibleInstrument) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", c.ID)
	w.Append("holder", c.HolderID)
	w.Append("type", c.Type)
	w.Optional("framework", c.Framework)
	w.Append("principal", c.Principal)
	w.Optional("issued", c.IssueDate)
	if !c.DiscountRate.IsZero() {
		w.Append("discount", c.DiscountRate)
	}
	w.Amount("cap", c.ValuationCap)
	if !c.InterestRate.IsZero() {
		w.Append("interest", c.InterestRate)
	}
	w.Optional("compounding", c.Compounding)
	w.Optional("postMoney", c.PostMoney)
	w.Optional("converted", c.Converted)
	return w.MarshalJSON()
}

func (c *ConvertibleInstrument) UnmarshalJSON(data []byte) error {
	var j jsonConvertible
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	*c = ConvertibleInstrument{
		ID:           j.ID,
		HolderID:     j.Holder,
		Type:         j.Type,
		Framework:    j.Framework,
		Principal:    j.Principal,
		IssueDate:    j.Issued,
		DiscountRate: j.Discount,
		ValuationCap: j.Cap,
		InterestRate: j.Interest,
		Compounding:  j.Compounding,
		PostMoney:    j.PostMoney,
		Converted:    j.Converted,
	}
	return nil
}

// DecodeCapTable decodes a cap table from a stream of JSONL records, one
// per line, each identified by its "kind". Records keep their file order.
//
// The table is not validated, see CapTable.Validate.
func DecodeCapTable(r io.Reader) (*CapTable, error) {
	t := &CapTable{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		lineBytes := bytes.TrimSpace(scanner.Bytes())
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Kind string `json:"kind"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("line %d: could not identify record %q: %w", line, string(lineBytes), err)
		}

		var err error
		switch identifier.Kind {
		case kindCompany:
			var c company
			if err = json.Unmarshal(lineBytes, &c); err == nil {
				t.Name, t.Currency = c.Name, c.Currency
			}
		case kindClass:
			var c SecurityClass
			if err = json.Unmarshal(lineBytes, &c); err == nil {
				t.Classes = append(t.Classes, c)
			}
		case kindPlan:
			var p OptionPlan
			if err = json.Unmarshal(lineBytes, &p); err == nil {
				t.Plans = append(t.Plans, p)
			}
		case kindShare:
			var e ShareLedgerEntry
			if err = json.Unmarshal(lineBytes, &e); err == nil {
				t.Entries = append(t.Entries, e)
			}
		case kindAward:
			var a EquityAward
			if err = json.Unmarshal(lineBytes, &a); err == nil {
				t.Awards = append(t.Awards, a)
			}
		case kindConvertible:
			var c ConvertibleInstrument
			if err = json.Unmarshal(lineBytes, &c); err == nil {
				t.Convertibles = append(t.Convertibles, c)
			}
		default:
			return nil, fmt.Errorf("line %d: unknown record kind %q", line, identifier.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: decoding %s record: %w", line, identifier.Kind, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading cap table: %w", err)
	}
	return t, nil
}

// record is one line of the JSONL format.
type record struct {
	kind string
	v    any
}

// EncodeCapTable writes t as JSONL: the company record, then classes, plans,
// share entries, awards and convertibles, each in table order.
func EncodeCapTable(w io.Writer, t *CapTable) error {
	records := []record{{kindCompany, company{t.Name, t.Currency}}}
	for _, c := range t.Classes {
		records = append(records, record{kindClass, c})
	}
	for _, p := range t.Plans {
		records = append(records, record{kindPlan, p})
	}
	for _, e := range t.Entries {
		records = append(records, record{kindShare, e})
	}
	for _, a := range t.Awards {
		records = append(records, record{kindAward, a})
	}
	for _, c := range t.Convertibles {
		records = append(records, record{kindConvertible, c})
	}

	bw := bufio.NewWriter(w)
	for _, r := range records {
		var o jsonObjectWriter
		o.Append("kind", r.kind)
		o.EmbedFrom(r.v)
		line, err := o.MarshalJSON()
		if err != nil {
			return fmt.Errorf("encoding %s record: %w", r.kind, err)
		}
		bw.Write(line)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
