package visuals

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownType is returned for elements whose type is not renderable.
	ErrUnknownType = errors.New("unknown visual element type")
	// ErrMissingPayload is returned when an element carries no data.
	ErrMissingPayload = errors.New("visual element has no data")
	// ErrMalformedPayload is returned when data does not fit the declared type.
	ErrMalformedPayload = errors.New("visual element data does not match its type")
)

// Decode converts the element's Data into the payload shape for its declared
// type and validates it. Data may already be a payload value, raw JSON, a JSON
// string, or a generic map/slice tree; field names match case-insensitively.
//
// A non-nil error means the element cannot be rendered and the caller should
// substitute a placeholder.
func Decode(el Element) (Payload, error) {
	var p Payload
	switch ParseType(string(el.Type)) {
	case TypeTable:
		p = &TableData{}
	case TypeChart:
		p = &ChartData{}
	case TypeMetric:
		p = &MetricData{}
	case TypeInfographic:
		p = &InfographicData{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, el.Type)
	}

	if err := decodeInto(el.Data, p); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	normalize(p)
	return p, nil
}

func decodeInto(data any, target Payload) error {
	var raw []byte
	switch v := data.(type) {
	case nil:
		return ErrMissingPayload
	case Payload:
		if v.Kind() != target.Kind() {
			return fmt.Errorf("%w: got %s payload", ErrMalformedPayload, v.Kind())
		}
		// Round-trip so that normalisation never writes into the caller's value.
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		raw = b
	case json.RawMessage:
		raw = v
	case []byte:
		raw = v
	case string:
		if strings.TrimSpace(v) == "" {
			return ErrMissingPayload
		}
		raw = []byte(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		raw = b
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return nil
}

// normalize fills defaults on a validated payload.
func normalize(p Payload) {
	switch v := p.(type) {
	case *TableData:
		v.TableType = strings.ToLower(v.TableType)
		if v.TableType == "" {
			v.TableType = TableCustom
		}
	case *ChartData:
		v.ChartType = strings.ToLower(v.ChartType)
		if v.ChartType == "" {
			v.ChartType = ChartBar
		}
	case *MetricData:
		if v.Layout == "" {
			v.Layout = "row"
		}
		for i := range v.Metrics {
			v.Metrics[i].Format = strings.ToLower(v.Metrics[i].Format)
			v.Metrics[i].Trend = TrendDirection(strings.ToLower(string(v.Metrics[i].Trend)))
		}
	case *InfographicData:
		v.InfographicType = strings.ToLower(v.InfographicType)
	}
}
