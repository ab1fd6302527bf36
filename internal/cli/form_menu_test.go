package cli_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lfs-lab/certtrack/internal/forms"
	"github.com/lfs-lab/certtrack/internal/menu"
)

func TestFormFields(t *testing.T) {
	setupCLITest(t)

	out, _, err := execute(t, "form", "fields", "--affiliation", "1", "--after-hours", "0")
	require.NoError(t, err)
	assert.Regexp(t, `employee_number\s+false\s+false`, out)
	assert.Regexp(t, `student_number\s+true\s+true`, out)
	assert.Regexp(t, `working_alone\s+true\s+true`, out)

	out, _, err = execute(t, "form", "fields", "--affiliation", "0", "-o", "json")
	require.NoError(t, err)
	var fields []forms.Field
	require.NoError(t, json.Unmarshal([]byte(out), &fields))
	assert.Equal(t, []forms.Field{
		{Name: forms.FieldEmployeeNumber, Visible: true, Required: true},
		{Name: forms.FieldStudentNumber},
		{Name: forms.FieldWorkingAlone},
	}, fields)

	_, _, err = execute(t, "form", "fields", "--affiliation", "9")
	require.ErrorIs(t, err, forms.ErrUnknownAffiliation)
}

func TestMenuActive(t *testing.T) {
	setupCLITest(t)

	out, _, err := execute(t, "menu", "active", "/users/training-records/",
		"All Users=/users/all/", "Training Records=/users/training-records/")
	require.NoError(t, err)
	assert.Equal(t, "  All Users (all-users)\n* Training Records (training-records)\n", out)

	out, _, err = execute(t, "menu", "active", "/users/all-users/", "All Users", "-o", "json")
	require.NoError(t, err)
	var items []menu.Item
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	assert.Equal(t, []menu.Item{{Text: "All Users", Active: true}}, items)
}

func TestMenuTable(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{url: "/users/12/?t=training", want: "training-table-0\n"},
		{url: "/users/12/?t=basic_info", want: "No table\n"},
		{url: "/users/12/", want: "No table\n"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			setupCLITest(t)
			out, _, err := execute(t, "menu", "table", tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}
