package util

import (
	"encoding/json"
	"fmt"
)

func Serialize(value any) ([]byte, error) {
	data, err := json.Marshal(value)

	if err != nil {
		return nil, fmt.Errorf("failed to serialize %T: %w", value, err)
	}

	return data, nil
}

func Deserialize[T any](data []byte) (T, error) {
	var value T

	if err := json.Unmarshal(data, &value); err != nil {
		return value, fmt.Errorf("failed to deserialize %T: %w", value, err)
	}

	return value, nil
}

func TodoKey(id int) string {
	return fmt.Sprintf("todo:%d", id)
}

const TodosKey = "todos:all"
