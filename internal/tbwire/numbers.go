package tbwire

import (
	"fmt"
	"math"
)

func toFloat(value any) (float64, error) {
	switch x := value.(type) {
	case float64:
		return x, nil
	case int64:
		return float64(x), nil
	case int:
		return float64(x), nil
	case nil:
		return 0, fmt.Errorf("missing number")
	default:
		return 0, fmt.Errorf("expected a number, got %T", value)
	}
}

func toInt(value any) (int64, error) {
	switch x := value.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return 0, fmt.Errorf("expected an integer, got %v", x)
		}
		if math.Abs(x) >= 1<<63 {
			return 0, fmt.Errorf("integer %v out of range", x)
		}
		return int64(x), nil
	case nil:
		return 0, fmt.Errorf("missing integer")
	default:
		return 0, fmt.Errorf("expected an integer, got %T", value)
	}
}

func toFloats(value any) ([]float64, error) {
	list, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list of numbers, got %T", value)
	}

	result := make([]float64, len(list))
	for i, item := range list {
		x, err := toFloat(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %v", i, err)
		}
		result[i] = x
	}
	return result, nil
}
