package engine

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
)

// --- Job record types ---

// JobRecord is a job posting as delivered by one of the upstream sources.
// Only ID is guaranteed; everything else may be missing or shaped differently
// depending on where the record came from.
type JobRecord struct {
	ID                  string      `json:"id"`
	Slug                string      `json:"slug,omitempty"`
	Title               string      `json:"title,omitempty"`
	Company             string      `json:"company,omitempty"`
	CompanyID           string      `json:"companyId,omitempty"`
	Location            string      `json:"location,omitempty"`
	Description         string      `json:"description,omitempty"`
	Skills              []string    `json:"skills,omitempty"`
	Category            string      `json:"category,omitempty"`
	Type                string      `json:"type,omitempty"`
	IsRemote            bool        `json:"isRemote,omitempty"`
	LocationType        string      `json:"locationType,omitempty"`
	ExperienceLevel     string      `json:"experienceLevel,omitempty"`
	Experience          *Experience `json:"experience,omitempty"`
	Salary              *Salary     `json:"salary,omitempty"`
	PostedDate          string      `json:"postedDate,omitempty"`
	ApplicationDeadline string      `json:"applicationDeadline,omitempty"`

	// Derived per search session, never persisted.
	MatchPercentage float64 `json:"matchPercentage,omitempty"`
	Priority        int     `json:"priority,omitempty"`
}

// Experience holds either a structured {min,max} range or free text.
// Sources disagree on the shape, so both are accepted on decode.
type Experience struct {
	Min  *float64
	Max  *float64
	Text string
}

// Structured reports whether the experience came as a {min,max} object.
func (e *Experience) Structured() bool {
	return e != nil && (e.Min != nil || e.Max != nil)
}

type experienceRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

func (e *Experience) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '{':
		var r experienceRange
		if err := json.Unmarshal(data, &r); err != nil {
			slog.Debug("jobs: malformed experience dropped", slog.String("raw", string(data)), slog.Any("error", err))
			return nil
		}
		e.Min, e.Max = r.Min, r.Max
	case '"':
		return json.Unmarshal(data, &e.Text)
	default:
		// Bare number, e.g. "experience": 3.
		if isNumber(data) {
			e.Text = string(data)
			return nil
		}
		slog.Debug("jobs: malformed experience dropped", slog.String("raw", string(data)))
	}
	return nil
}

func isNumber(data []byte) bool {
	_, err := strconv.ParseFloat(string(data), 64)
	return err == nil
}

func (e Experience) MarshalJSON() ([]byte, error) {
	if e.Min != nil || e.Max != nil {
		return json.Marshal(experienceRange{Min: e.Min, Max: e.Max})
	}
	return json.Marshal(e.Text)
}

// String renders the experience the way free-text sources would.
func (e *Experience) String() string {
	if e == nil {
		return ""
	}
	if e.Text != "" {
		return e.Text
	}
	switch {
	case e.Min != nil && e.Max != nil:
		return fmtNum(*e.Min) + "-" + fmtNum(*e.Max) + " years"
	case e.Min != nil:
		return fmtNum(*e.Min) + "+ years"
	case e.Max != nil:
		return "0-" + fmtNum(*e.Max) + " years"
	}
	return ""
}

// Salary holds either a display string or a structured range.
type Salary struct {
	Min      float64
	Max      float64
	Currency string
	Text     string
}

// IsText reports whether the salary arrived as a pre-formatted string.
func (s *Salary) IsText() bool {
	return s != nil && s.Text != ""
}

type salaryRange struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency,omitempty"`
}

func (s *Salary) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch {
	case data[0] == '"':
		return json.Unmarshal(data, &s.Text)
	case isNumber(data):
		// Bare number, e.g. "salary": 50000.
		s.Text = string(data)
		return nil
	}
	// Anything else that is not a valid range leaves the salary unspecified
	// rather than failing the whole record.
	var r salaryRange
	if err := json.Unmarshal(data, &r); err != nil {
		slog.Debug("jobs: malformed salary dropped", slog.String("raw", string(data)), slog.Any("error", err))
		return nil
	}
	s.Min, s.Max, s.Currency = r.Min, r.Max, strings.ToUpper(r.Currency)
	return nil
}

func (s Salary) MarshalJSON() ([]byte, error) {
	if s.Text != "" {
		return json.Marshal(s.Text)
	}
	return json.Marshal(salaryRange{Min: s.Min, Max: s.Max, Currency: s.Currency})
}

func fmtNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Float returns a pointer to f. Handy for optional bounds.
func Float(f float64) *float64 { return &f }

// --- Suggestions ---

// Suggestions is the raw autocomplete response: four independently-filled groups.
type Suggestions struct {
	Jobs      []string `json:"jobs"`
	Companies []string `json:"companies"`
	Locations []string `json:"locations"`
	Skills    []string `json:"skills"`
}

// Empty reports whether no group has any value.
func (s Suggestions) Empty() bool {
	return len(s.Jobs)+len(s.Companies)+len(s.Locations)+len(s.Skills) == 0
}

// --- Source queries ---

// ServerFilters is the subset of criteria a job source can apply itself.
type ServerFilters struct {
	Search   string `json:"search,omitempty"`
	Location string `json:"location,omitempty"`
	Type     string `json:"type,omitempty"`
	Category string `json:"category,omitempty"`
	IsRemote bool   `json:"isRemote,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// Key returns a stable cache key fragment for the filters.
func (f ServerFilters) Key() string {
	return strings.Join([]string{
		strings.ToLower(f.Search), strings.ToLower(f.Location), strings.ToLower(f.Type),
		strings.ToLower(f.Category), strconv.FormatBool(f.IsRemote), strconv.Itoa(f.Limit),
	}, "|")
}
