package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBind(t *testing.T) {
	type target struct {
		ID      int      `param:"id"`
		Name    string   `param:"name"`
		Ratio   float64  `param:"ratio"`
		Active  bool     `param:"active"`
		Count   uint8    `param:"count"`
		Rest    []string `param:"rest"`
		Ignored string
	}

	var got target
	err := Params{
		"id":     float64(42),
		"name":   "alice",
		"ratio":  0.5,
		"active": true,
		"count":  float64(7),
		"rest":   "/a/b/c",
	}.Bind(&got)
	require.NoError(t, err)
	assert.Equal(t, target{
		ID:     42,
		Name:   "alice",
		Ratio:  0.5,
		Active: true,
		Count:  7,
		Rest:   []string{"a", "b", "c"},
	}, got)
}

func TestBindFromMatch(t *testing.T) {
	c, err := Compile(RouteInfo{Path: "/user/:id/:name?"}, "/")
	require.NoError(t, err)
	matched, params := c.Exec("/user/12/bob")
	require.True(t, matched)

	var got struct {
		ID   int64  `param:"id"`
		Name string `param:"name"`
	}
	require.NoError(t, params.Bind(&got))
	assert.EqualValues(t, 12, got.ID)
	assert.Equal(t, "bob", got.Name)
}

func TestBindNumberAsString(t *testing.T) {
	var got struct {
		Code string `param:"code"`
	}
	require.NoError(t, Params{"code": float64(1e3)}.Bind(&got))
	assert.Equal(t, "1000", got.Code)
}

func TestBindErrors(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		target any
	}{
		{"not a pointer", Params{}, struct{}{}},
		{"not a struct", Params{}, new(int)},
		{"fractional int", Params{"n": 1.5}, &struct {
			N int `param:"n"`
		}{}},
		{"string int", Params{"n": "abc"}, &struct {
			N int `param:"n"`
		}{}},
		{"negative uint", Params{"n": float64(-1)}, &struct {
			N uint `param:"n"`
		}{}},
		{"overflow", Params{"n": float64(300)}, &struct {
			N int8 `param:"n"`
		}{}},
		{"bad bool", Params{"b": "maybe"}, &struct {
			B bool `param:"b"`
		}{}},
		{"unsupported", Params{"m": "x"}, &struct {
			M map[string]string `param:"m"`
		}{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.params.Bind(tt.target))
		})
	}
}

func TestBindSkipsAbsent(t *testing.T) {
	got := struct {
		ID int `param:"id"`
	}{ID: 9}
	require.NoError(t, Params{}.Bind(&got))
	assert.Equal(t, 9, got.ID)
	assert.NoError(t, Params{}.Bind(nil))
}
