package playbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redlinehq/redline/internal/domain"
)

func TestLoad_EmbeddedPlaybooks(t *testing.T) {
	reg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"msa", "nda"}, reg.Names())

	nda, ok := reg.Get("nda")
	require.True(t, ok)
	assert.Equal(t, "nda", nda.Name)
	assert.NotEmpty(t, nda.Clauses)
	for _, clause := range nda.Clauses {
		assert.NotEmpty(t, clause.Title)
		assert.NotEmpty(t, clause.ExpectedText)
		assert.True(t, clause.Importance.IsValid())
	}

	_, ok = reg.Get("saas-tos")
	assert.False(t, ok)
}

func TestParse_Valid(t *testing.T) {
	reg, err := parse([]byte(`
playbooks:
  - name: test
    clauses:
      - title: Term
        expected_text: Five years.
        importance: major
`))
	require.NoError(t, err)

	pb, ok := reg.Get("test")
	require.True(t, ok)
	require.Len(t, pb.Clauses, 1)
	assert.Equal(t, domain.SeverityMajor, pb.Clauses[0].Importance)
}

func TestParse_Failures(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			data:    "playbooks: [",
			wantErr: "failed to parse playbooks",
		},
		{
			name: "missing clause title",
			data: `
playbooks:
  - name: broken
    clauses:
      - expected_text: Something.
        importance: major
`,
			wantErr: `invalid playbook "broken"`,
		},
		{
			name: "importance outside closed set",
			data: `
playbooks:
  - name: broken
    clauses:
      - title: Term
        expected_text: Something.
        importance: urgent
`,
			wantErr: `invalid playbook "broken"`,
		},
		{
			name: "duplicate names",
			data: `
playbooks:
  - name: twice
  - name: twice
`,
			wantErr: `duplicate playbook name "twice"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := parse([]byte(tt.data))

			require.Error(t, err)
			assert.Nil(t, reg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
