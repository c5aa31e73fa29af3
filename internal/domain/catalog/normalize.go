package catalog

import (
	"encoding/json"
	"strconv"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"

	"github.com/fusionatlas/fusion-catalog/internal/infrastructure/monitoring/logging"
)

// Raw is one company object exactly as decoded from the upstream payload,
// before flattening or coercion.
type Raw = map[string]interface{}

// Report counts the outcomes of one normalization pass.  Per-record issues
// never abort the pass; they are tallied here so callers can surface a
// "N records affected" message.
type Report struct {
	// Total is the number of raw objects received.
	Total int `json:"total"`

	// Accepted is the number of records that made it into the table.
	Accepted int `json:"accepted"`

	// RejectedNoName counts records dropped for a missing or empty name.
	RejectedNoName int `json:"rejected_no_name"`

	// DuplicateName counts records dropped because an earlier record already
	// claimed their name.  The first occurrence wins.
	DuplicateName int `json:"duplicate_name"`

	// MilestoneParseFailures counts records whose milestone text could not be
	// parsed even after repair; those records carry an empty milestone list.
	MilestoneParseFailures int `json:"milestone_parse_failures"`
}

// Degraded reports whether any record was rejected or degraded during the pass.
func (r Report) Degraded() bool {
	return r.RejectedNoName > 0 || r.DuplicateName > 0 || r.MilestoneParseFailures > 0
}

// Normalize flattens and coerces a slice of raw company objects into a Table.
// It is a pure transform apart from warning logs: malformed records are
// skipped or degraded and counted in the returned Report, and processing
// always continues with the remaining records.
func Normalize(items []Raw, log logging.Logger) (*Table, Report) {
	if log == nil {
		log = logging.NewNopLogger()
	}

	report := Report{Total: len(items)}
	records := make([]Company, 0, len(items))
	seen := make(map[string]bool, len(items))

	for i, item := range items {
		flat := Flatten(item)

		name := strings.TrimSpace(stringAt(flat, "name"))
		if name == "" {
			report.RejectedNoName++
			log.Warn("record rejected: missing name", logging.Int("index", i))
			continue
		}
		if seen[name] {
			report.DuplicateName++
			log.Warn("record rejected: duplicate name", logging.String("name", name))
			continue
		}
		seen[name] = true

		c := Company{
			Name:                name,
			Description:         stringAt(flat, "description"),
			Location:            stringAt(flat, "location"),
			YearFounded:         stringAt(flat, "year_founded"),
			GeneralApproach:     stringAt(flat, "general_approach"),
			SpecificApproach:    stringAt(flat, "specific_approach"),
			FuelSource:          stringAt(flat, "fuel_source"),
			PilotPlantTimeline:  stringAt(flat, "pilot_plant_timeline"),
			Employees:           intAt(flat, "employees"),
			FundingUSD:          floatAt(flat, "funding.amount"),
			CommercialOutputMWe: floatAt(flat, "commercial_output.mwe"),
		}

		milestones, ok := parseMilestones(flat["milestones_past_12_months"])
		if !ok {
			report.MilestoneParseFailures++
			log.Warn("milestone list unparsable, using empty list",
				logging.String("name", name))
		}
		c.Milestones = milestones

		records = append(records, c)
	}

	report.Accepted = len(records)
	return NewTable(records), report
}

// Flatten converts a nested object into a single-level map with dotted-path
// keys, so that nested fields like funding.amount address the same way the
// upstream schema documents them.  Arrays and scalars are kept as-is at their
// flattened position.
func Flatten(in Raw) Raw {
	out := make(Raw, len(in))
	flattenInto("", in, out)
	return out
}

func flattenInto(prefix string, in Raw, out Raw) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]interface{}); ok {
			flattenInto(key, nested, out)
			continue
		}
		out[key] = v
	}
}

// stringAt returns the value at key rendered as a string.  JSON numbers are
// formatted without a trailing ".0" when integral, matching how upstream
// sometimes serializes year_founded as a number.
func stringAt(flat Raw, key string) string {
	v, ok := flat[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

// floatAt coerces the value at key to a non-negative float.  Missing keys,
// nulls, unparsable strings, and negative values all yield nil (absent), so
// bad data is excluded from aggregates instead of dragging them to zero.
func floatAt(flat Raw, key string) *float64 {
	v, ok := flat[key]
	if !ok || v == nil {
		return nil
	}
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if f < 0 {
		return nil
	}
	return &f
}

// intAt coerces the value at key to a non-negative integer, truncating
// fractional JSON numbers.  Same absent semantics as floatAt.
func intAt(flat Raw, key string) *int64 {
	f := floatAt(flat, key)
	if f == nil {
		return nil
	}
	n := int64(*f)
	return &n
}

// parseMilestones turns the raw milestone value into a string slice.
//
// Upstream is inconsistent: some records carry a real JSON array, others a
// serialized textual representation of one — often a Python-style list
// literal with single quotes.  The textual form is handled with a structured
// parse only: plain JSON first, then a json-repair pass to recover
// almost-JSON literals.  Nothing is ever evaluated as code.
//
// The second return is false when a non-empty textual value could not be
// parsed; the caller counts it and the record keeps an empty list.
func parseMilestones(v interface{}) ([]string, bool) {
	switch m := v.(type) {
	case nil:
		return nil, true
	case []interface{}:
		return stringify(m), true
	case []string:
		return m, true
	case string:
		text := strings.TrimSpace(m)
		if text == "" {
			return nil, true
		}
		if parsed, ok := parseListLiteral(text); ok {
			return parsed, true
		}
		repaired, err := jsonrepair.RepairJSON(text)
		if err == nil {
			if parsed, ok := parseListLiteral(repaired); ok {
				return parsed, true
			}
		}
		return nil, false
	default:
		return nil, false
	}
}

func parseListLiteral(text string) ([]string, bool) {
	var items []interface{}
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, false
	}
	return stringify(items), true
}

func stringify(items []interface{}) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
			continue
		}
		if b, err := json.Marshal(item); err == nil {
			out = append(out, string(b))
		}
	}
	return out
}
