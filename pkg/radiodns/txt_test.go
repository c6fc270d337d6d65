package radiodns

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeTXT(t *testing.T) {
	tests := []struct {
		name string
		strs []string
		want []Param
	}{
		{
			name: "single pair",
			strs: []string{"lang=en"},
			want: []Param{{"lang", "en"}},
		},
		{
			name: "several pairs across strings",
			strs: []string{"a=1 b=2", "c=3"},
			want: []Param{{"a", "1"}, {"b", "2"}, {"c", "3"}},
		},
		{
			name: "percent escapes",
			strs: []string{"path=%2Fepg%2f title=Radio%20One"},
			want: []Param{{"path", "/epg/"}, {"title", "Radio One"}},
		},
		{
			name: "presentation escapes",
			strs: []string{`note=a\"b title=x\032y`},
			want: []Param{{"note", `a"b`}, {"title", "x"}, {"y", ""}},
		},
		{
			name: "malformed escape kept",
			strs: []string{"v=100% w=%zz x=%4"},
			want: []Param{{"v", "100%"}, {"w", "%zz"}, {"x", "%4"}},
		},
		{
			name: "key without value",
			strs: []string{"flag"},
			want: []Param{{"flag", ""}},
		},
		{
			name: "empty key skipped",
			strs: []string{"=orphan k=v"},
			want: []Param{{"k", "v"}},
		},
		{
			name: "value keeps later equals",
			strs: []string{"q=a=b"},
			want: []Param{{"q", "a=b"}},
		},
		{
			name: "empty",
			strs: []string{"", "   "},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeTXT(tt.strs, nil))
		})
	}
}

func TestDecodeTXTCap(t *testing.T) {
	params := DecodeTXT([]string{"a=1 b=2 c=3 d=4 e=5"}, nil)
	params = DecodeTXT([]string{"f=6 g=7 h=8 i=9 j=10"}, params)

	assert.Len(t, params, MaxParams)
	assert.Equal(t, Param{"h", "8"}, params[MaxParams-1])

	again := DecodeTXT([]string{"k=11"}, params)
	assert.Len(t, again, MaxParams)
}

func TestInstanceParam(t *testing.T) {
	in := Instance{Params: []Param{{"a", "1"}, {"b", "2"}, {"a", "3"}}}

	v, ok := in.Param("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	_, ok = in.Param("z")
	assert.False(t, ok)
}

func TestPercentDecodeRawBytes(t *testing.T) {
	assert.Equal(t, "\x00\xff", percentDecode("%00%FF"))
}
