// Package forms decides which conditional fields of the access request and
// user detail forms are shown and required for a given set of choices.
package forms

import (
	"errors"
	"fmt"
	"sort"
)

// Field names controlled by the form choices.
const (
	FieldEmployeeNumber = "employee_number"
	FieldStudentNumber  = "student_number"
	FieldWorkingAlone   = "working_alone"
)

// Affiliation is the value of the affiliation radio group.
type Affiliation string

// Affiliation choices.
const (
	AffiliationEmployee        Affiliation = "0"
	AffiliationStudent         Affiliation = "1"
	AffiliationGraduateStudent Affiliation = "2"
	AffiliationOther           Affiliation = "3"
	AffiliationUnset           Affiliation = ""
)

// AfterHours is the value of the after-hours access radio group.
type AfterHours string

// After-hours access choices.
const (
	AfterHoursYes   AfterHours = "0"
	AfterHoursNo    AfterHours = "1"
	AfterHoursUnset AfterHours = ""
)

// Choice errors.
var (
	ErrUnknownAffiliation = errors.New("unknown affiliation")
	ErrUnknownAfterHours  = errors.New("unknown after-hours access choice")
)

// Field is the visibility and required flag of one conditional field.
type Field struct {
	Name     string `json:"name"     yaml:"name"`
	Visible  bool   `json:"visible"  yaml:"visible"`
	Required bool   `json:"required" yaml:"required"`
}

// Choice is the set of radio values the form reacts to. Unset groups leave
// their fields as they were.
type Choice struct {
	Affiliation Affiliation
	AfterHours  AfterHours
}

// Form tracks the conditional fields of one rendered form.
type Form struct {
	fields map[string]Field
}

// New returns a form with every conditional field hidden and optional, which
// is how the page renders before a choice is made.
func New() *Form {
	f := &Form{fields: make(map[string]Field, 3)}
	for _, name := range []string{FieldEmployeeNumber, FieldStudentNumber, FieldWorkingAlone} {
		f.fields[name] = Field{Name: name}
	}
	return f
}

// Apply updates the fields for c. Nothing changes when either choice is invalid.
func (f *Form) Apply(c Choice) error {
	if err := c.Validate(); err != nil {
		return err
	}

	switch c.Affiliation {
	case AffiliationEmployee:
		f.set(FieldEmployeeNumber, true)
		f.set(FieldStudentNumber, false)
	case AffiliationStudent, AffiliationGraduateStudent:
		f.set(FieldEmployeeNumber, false)
		f.set(FieldStudentNumber, true)
	case AffiliationOther:
		f.set(FieldEmployeeNumber, false)
		f.set(FieldStudentNumber, false)
	case AffiliationUnset:
	}

	switch c.AfterHours {
	case AfterHoursYes:
		f.set(FieldWorkingAlone, true)
	case AfterHoursNo:
		f.set(FieldWorkingAlone, false)
	case AfterHoursUnset:
	}
	return nil
}

// set shows and requires a field together; the form never shows an optional
// conditional field.
func (f *Form) set(name string, on bool) {
	f.fields[name] = Field{Name: name, Visible: on, Required: on}
}

// Field returns the named field.
func (f *Form) Field(name string) (Field, bool) {
	fl, ok := f.fields[name]
	return fl, ok
}

// Fields returns all conditional fields sorted by name.
func (f *Form) Fields() []Field {
	out := make([]Field, 0, len(f.fields))
	for _, fl := range f.fields {
		out = append(out, fl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Validate checks both choices against their known values.
func (c Choice) Validate() error {
	switch c.Affiliation {
	case AffiliationEmployee, AffiliationStudent, AffiliationGraduateStudent, AffiliationOther, AffiliationUnset:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAffiliation, c.Affiliation)
	}
	switch c.AfterHours {
	case AfterHoursYes, AfterHoursNo, AfterHoursUnset:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAfterHours, c.AfterHours)
	}
	return nil
}

// Fields is a convenience for New followed by Apply.
func Fields(c Choice) ([]Field, error) {
	f := New()
	if err := f.Apply(c); err != nil {
		return nil, err
	}
	return f.Fields(), nil
}
