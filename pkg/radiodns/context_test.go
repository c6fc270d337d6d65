package radiodns

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContext(t *testing.T) {
	z := newZone(t)

	tests := []struct {
		in      string
		want    string
		wantErr error
	}{
		{"example.com", "example.com", nil},
		{".example.com.", "example.com", nil},
		{"..x", "x", nil},
		{"", "", ErrInvalidDomain},
		{"...", "", ErrInvalidDomain},
		{"a..b", "", ErrInvalidDomain},
		{string(make([]byte, 300)), "", ErrDomainTooLong},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.Querier = z
		c, err := NewContext(tt.in, cfg)
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr, "input %q", tt.in)
			assert.True(t, IsValidation(err))
			assert.Nil(t, c)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, c.Domain())
		_, ok := c.Target()
		assert.False(t, ok)
	}
}

func TestNewContextRequiresQuerier(t *testing.T) {
	_, err := NewContext("example.com", DefaultConfig())
	assert.ErrorIs(t, err, ErrNoQuerier)
	assert.True(t, IsValidation(err))
}

func TestNewContextDefaults(t *testing.T) {
	c, err := NewContext("example.com", Config{Querier: newZone(t)})
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxRedirects, c.maxRedirects)
	assert.Equal(t, DefaultAnswerBufferSize, c.bufSize)
	assert.Nil(t, c.answer, "buffer is allocated lazily")

	_, err = uuid.Parse(c.TraceID())
	assert.NoError(t, err)

	other := newTestContext(t, "example.com", newZone(t))
	assert.NotEqual(t, c.TraceID(), other.TraceID())
}

func TestBearerContexts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Querier = newZone(t)

	c, err := NewFMContext(945, 0x1234, "ce1", "", cfg)
	require.NoError(t, err)
	assert.Equal(t, "00945.1234.ce1.fm.radiodns.org", c.Domain())

	c, err = NewDABContext(1, 0xc1ce, 0x1ce1, 0xe1, "", cfg)
	require.NoError(t, err)
	assert.Equal(t, "1.c1ce.1ce1.0e1.dab.radiodns.org", c.Domain())

	c, err = NewDABSCContext(5, 1, 0xc1ce, 0x1ce1, 0xe1, "", cfg)
	require.NoError(t, err)
	assert.Equal(t, "5.1.c1ce.1ce1.0e1.dab.radiodns.org", c.Domain())

	c, err = NewDABXPADContext(0xc, 0x7, 1, 0xc1ce, 0x1ce1, 0xe1, "", cfg)
	require.NoError(t, err)
	assert.Equal(t, "0c-007.1.c1ce.1ce1.0e1.dab.radiodns.org", c.Domain())

	c, err = NewDRMContext(0xe1c238, "", cfg)
	require.NoError(t, err)
	assert.Equal(t, "e1c238.drm.radiodns.org", c.Domain())

	c, err = NewAMSSContext(0xe1c238, "", cfg)
	require.NoError(t, err)
	assert.Equal(t, "e1c238.amss.radiodns.org", c.Domain())

	c, err = NewHDRadioContext(0x6f5b, 0x31, "", cfg)
	require.NoError(t, err)
	assert.Equal(t, "06f5b.031.hd.radiodns.org", c.Domain())

	c, err = NewDVBContext(0x233a, 1, 0x6301, 2, "", cfg)
	require.NoError(t, err)
	assert.Equal(t, "0002.6301.0001.233a.dvb.tvdns.net", c.Domain())

	_, err = NewFMContext(100000, 0, "gb", "", cfg)
	assert.ErrorIs(t, err, ErrFieldRange)
}

func TestContextClose(t *testing.T) {
	z := newZone(t)
	c := newTestContext(t, "example.com", z)

	_, err := c.ResolveTarget(context.Background())
	require.NoError(t, err)
	_, ok := c.Target()
	require.True(t, ok)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	_, ok = c.Target()
	assert.False(t, ok)
	assert.Nil(t, c.answer)
	assert.Equal(t, "example.com", c.Domain())

	_, err = c.ResolveTarget(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
	_, err = c.ResolveInstances(context.Background(), "radioepg", "")
	assert.ErrorIs(t, err, ErrClosed)
}
