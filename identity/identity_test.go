package identity

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rawPrincipal struct{ text string }

func (p *rawPrincipal) String() string { return p.text }

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{name: "canonical", in: "rdmx6-jaaaa-aaaaa-aaadq-cai", want: "rdmx6-jaaaa-aaaaa-aaadq-cai"},
		{name: "trims and lowers", in: "  RDMX6-Jaaaa-cai ", want: "rdmx6-jaaaa-cai"},
		{name: "empty", in: "   ", wantErr: ErrEmpty},
		{name: "bad charset", in: "alice@example", wantErr: ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Parse(tt.in)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id.String())
		})
	}
}

func TestEqual_ComparesCanonicalForm(t *testing.T) {
	a := MustParse("aaaaa-aa")
	first := &rawPrincipal{text: "aaaaa-aa"}
	second := &rawPrincipal{text: "AAAAA-AA"}

	assert.True(t, a.Equal(first))
	assert.True(t, a.Equal(second))
	assert.False(t, a.Equal(&rawPrincipal{text: "bbbbb-bb"}))
	assert.False(t, a.Equal(nil))
}

func TestShort(t *testing.T) {
	id := MustParse("rdmx6-jaaaa-aaaaa-aaadq-cai")
	assert.Equal(t, "rdmx6-ja…-cai", id.Short(8))
	assert.Equal(t, id.String(), id.Short(20))
	assert.Equal(t, id.String(), id.Short(0))
}

func TestJSON(t *testing.T) {
	type wrapper struct {
		Who ID `json:"who"`
	}

	data, err := json.Marshal(wrapper{Who: MustParse("abc-def")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"who":"abc-def"}`, string(data))

	var out wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"who":"ABC-DEF"}`), &out))
	assert.Equal(t, "abc-def", out.Who.String())

	require.NoError(t, json.Unmarshal([]byte(`{"who":""}`), &out))
	assert.True(t, out.Who.IsZero())
}
