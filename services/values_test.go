package services

import (
	"testing"
	"time"

	"github.com/kendall-kelly/repair-desk-api/models"
	"github.com/kendall-kelly/repair-desk-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestParseFields(t *testing.T) {
	t.Run("keeps document order and value types", func(t *testing.T) {
		fields, err := ParseFields(`{"name": "Apple", "sort": 2, "rate": 1.5, "active": true, "note": null, "tags": ["a"]}`)
		require.NoError(t, err)

		assert.Equal(t, []Field{
			{Column: "name", Value: "Apple"},
			{Column: "sort", Value: int64(2)},
			{Column: "rate", Value: 1.5},
			{Column: "active", Value: true},
			{Column: "note", Value: nil},
			{Column: "tags", Value: `["a"]`},
		}, fields)
	})

	t.Run("empty body has no fields", func(t *testing.T) {
		fields, err := ParseFields("  ")
		require.NoError(t, err)
		assert.Empty(t, fields)
	})

	t.Run("invalid or non-object body is a bad request", func(t *testing.T) {
		for _, body := range []string{`{"name":`, `[1, 2]`, `"text"`} {
			_, err := ParseFields(body)
			require.Error(t, err, body)
			assert.True(t, utils.IsKind(err, utils.KindBadRequest), body)
		}
	})
}

func TestParseParams(t *testing.T) {
	assert.Equal(t, []any{int64(1), "a", nil, 2.5}, ParseParams(gjson.Parse(`[1, "a", null, 2.5]`)))
	assert.Equal(t, []any{}, ParseParams(gjson.Get(`{}`, "params")))
	assert.Equal(t, []any{}, ParseParams(gjson.Parse(`null`)))
	assert.Equal(t, []any{"x"}, ParseParams(gjson.Parse(`"x"`)))
}

func TestPopField(t *testing.T) {
	fields := []Field{{Column: "id", Value: int64(3)}, {Column: "name", Value: "x"}}

	id, rest, ok := popField(fields, "id")
	require.True(t, ok)
	assert.Equal(t, int64(3), id.Value)
	assert.Equal(t, []Field{{Column: "name", Value: "x"}}, rest)
	assert.Len(t, fields, 2, "Input must not be modified")

	_, rest, ok = popField(rest, "id")
	assert.False(t, ok)
	assert.Len(t, rest, 1)
}

func TestAmount_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		body    string
		want    *float64
		wantErr bool
	}{
		{body: `{"estimated_price": 1500}`, want: ptrTo(1500.0)},
		{body: `{"estimated_price": "2500.50"}`, want: ptrTo(2500.5)},
		{body: `{"estimated_price": "99,90"}`, want: ptrTo(99.9)},
		{body: `{"estimated_price": ""}`},
		{body: `{"estimated_price": null}`},
		{body: `{}`},
		{body: `{"estimated_price": "много"}`, wantErr: true},
		{body: `{"estimated_price": true}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			in, err := ParseOrderInput(tt.body)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, utils.IsKind(err, utils.KindBadRequest))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, in.EstimatedPrice.Ptr())
		})
	}

	assert.Zero(t, Amount{}.OrZero())
	assert.Equal(t, 10.0, AmountOf(10).OrZero())
}

func TestOrderInput_Deadline(t *testing.T) {
	tests := []struct {
		name    string
		in      OrderInput
		want    time.Time
		none    bool
		wantErr bool
	}{
		{name: "none", none: true},
		{
			name: "date and time",
			in:   OrderInput{DeadlineDate: "2025-04-01", DeadlineTime: "18:30"},
			want: time.Date(2025, 4, 1, 18, 30, 0, 0, time.Local),
		},
		{
			name: "date only means midnight",
			in:   OrderInput{DeadlineDate: "2025-04-01"},
			want: time.Date(2025, 4, 1, 0, 0, 0, 0, time.Local),
		},
		{
			name: "date wins over composed deadline",
			in:   OrderInput{DeadlineDate: "2025-04-02", Deadline: "2025-01-01 10:00"},
			want: time.Date(2025, 4, 2, 0, 0, 0, 0, time.Local),
		},
		{
			name: "composed deadline",
			in:   OrderInput{Deadline: "2025-05-06T09:15"},
			want: time.Date(2025, 5, 6, 9, 15, 0, 0, time.Local),
		},
		{
			name: "rfc3339 keeps its offset",
			in:   OrderInput{Deadline: "2025-05-06T09:15:00Z"},
			want: time.Date(2025, 5, 6, 9, 15, 0, 0, time.UTC),
		},
		{name: "garbage", in: OrderInput{Deadline: "завтра"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.ParseDeadline()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, utils.IsKind(err, utils.KindBadRequest))
				return
			}
			require.NoError(t, err)
			if tt.none {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestOrderInput_StatusOrDefault(t *testing.T) {
	assert.Equal(t, models.StatusNew, OrderInput{}.StatusOrDefault())
	assert.Equal(t, models.StatusNew, OrderInput{Status: "  "}.StatusOrDefault())
	assert.Equal(t, "ready", OrderInput{Status: "ready"}.StatusOrDefault())
}

func ptrTo[T any](v T) *T {
	return &v
}
