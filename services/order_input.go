package services

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/kendall-kelly/repair-desk-api/models"
	"github.com/kendall-kelly/repair-desk-api/utils"
	"github.com/samber/mo"
	"github.com/tidwall/gjson"
)

// deadlineLayouts are tried in order when parsing a deadline
var deadlineLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Amount is a money value as sent by the intake form: a number, a numeric
// string, an empty string or null
type Amount struct {
	value mo.Option[float64]
}

// AmountOf returns a present amount
func AmountOf(v float64) Amount {
	return Amount{value: mo.Some(v)}
}

// UnmarshalJSON implements json.Unmarshaler
func (a *Amount) UnmarshalJSON(b []byte) error {
	r := gjson.ParseBytes(b)
	switch r.Type {
	case gjson.Null:
		a.value = mo.None[float64]()
	case gjson.Number:
		a.value = mo.Some(r.Float())
	case gjson.String:
		raw := strings.TrimSpace(r.String())
		if raw == "" {
			a.value = mo.None[float64]()
			return nil
		}
		v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
		if err != nil {
			return utils.BadRequest("invalid amount %q", raw)
		}
		a.value = mo.Some(v)
	default:
		return utils.BadRequest("invalid amount %s", r.Raw)
	}
	return nil
}

// Ptr returns the amount or nil when absent
func (a Amount) Ptr() *float64 {
	if v, ok := a.value.Get(); ok {
		return &v
	}
	return nil
}

// OrZero returns the amount or 0 when absent
func (a Amount) OrZero() float64 {
	return a.value.OrElse(0)
}

// OrderInput is the intake/edit form body. Reference fields are free text
// and resolved to ids when the order is saved.
type OrderInput struct {
	ContractorName       string   `json:"contractor_name"`
	Phone                *string  `json:"phone"`
	Address              *string  `json:"address"`
	AdvertisingSource    string   `json:"advertising_source"`
	SerialNumber         *string  `json:"serial_number"`
	DeviceType           string   `json:"device_type"`
	Brand                string   `json:"brand"`
	Model                string   `json:"model"`
	Color                *string  `json:"color"`
	Accessories          []string `json:"accessories"`
	Appearance           *string  `json:"appearance"`
	Malfunction          *string  `json:"malfunction"`
	SecurityCode         *string  `json:"security_code"`
	DeviceTurnsOn        bool     `json:"device_turns_on"`
	FailureReason        *string  `json:"failure_reason"`
	RepairDescription    *string  `json:"repair_description"`
	ReturnDefectiveParts bool     `json:"return_defective_parts"`
	EstimatedPrice       Amount   `json:"estimated_price"`
	Prepayment           Amount   `json:"prepayment"`
	DeadlineDate         string   `json:"deadline_date"`
	DeadlineTime         string   `json:"deadline_time"`
	Deadline             string   `json:"deadline"`
	Status               string   `json:"status"`
	ReceiverComment      *string  `json:"receiver_comment"`
}

// ParseOrderInput decodes an order form body
func ParseOrderInput(body string) (OrderInput, error) {
	var in OrderInput
	if strings.TrimSpace(body) == "" {
		return in, nil
	}
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		if utils.IsKind(err, utils.KindBadRequest) {
			return in, err
		}
		return in, &utils.AppError{Kind: utils.KindBadRequest, Message: "invalid order body", Err: err}
	}
	return in, nil
}

// DeadlineText composes the deadline from the date and time inputs, or
// falls back to a pre-composed deadline
func (in OrderInput) DeadlineText() mo.Option[string] {
	if date := strings.TrimSpace(in.DeadlineDate); date != "" {
		clock := strings.TrimSpace(in.DeadlineTime)
		if clock == "" {
			clock = "00:00"
		}
		return mo.Some(date + " " + clock)
	}
	if deadline := strings.TrimSpace(in.Deadline); deadline != "" {
		return mo.Some(deadline)
	}
	return mo.None[string]()
}

// ParseDeadline returns the deadline as a local time, or nil when none was
// given
func (in OrderInput) ParseDeadline() (*time.Time, error) {
	text, ok := in.DeadlineText().Get()
	if !ok {
		return nil, nil
	}
	for _, layout := range deadlineLayouts {
		if t, err := time.ParseInLocation(layout, text, time.Local); err == nil {
			return &t, nil
		}
	}
	return nil, utils.BadRequest("invalid deadline %q", text)
}

// StatusOrDefault returns the requested status, or "new" when blank
func (in OrderInput) StatusOrDefault() string {
	if status := strings.TrimSpace(in.Status); status != "" {
		return status
	}
	return models.StatusNew
}

// apply copies the plain (non-reference) fields onto order
func (in OrderInput) apply(order *models.Order, deadline *time.Time) {
	order.Phone = in.Phone
	order.Address = in.Address
	order.SerialNumber = in.SerialNumber
	order.Color = in.Color
	order.Appearance = in.Appearance
	order.MalfunctionDescription = in.Malfunction
	order.SecurityCode = in.SecurityCode
	order.DeviceTurnsOn = in.DeviceTurnsOn
	order.FailureReason = in.FailureReason
	order.RepairDescription = in.RepairDescription
	order.ReturnDefectiveParts = in.ReturnDefectiveParts
	order.EstimatedPrice = in.EstimatedPrice.Ptr()
	order.Prepayment = in.Prepayment.OrZero()
	order.Deadline = deadline
	order.ReceiverComment = in.ReceiverComment
}
