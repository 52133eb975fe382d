package journal

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/attune/internal/attr"
	"github.com/roach88/attune/internal/gen"
)

// Append records one change event.
func (j *Journal) Append(ev attr.ChangeEvent) error {
	oldJSON, err := marshalValue(ev.Old)
	if err != nil {
		return fmt.Errorf("append change: %w", err)
	}
	newJSON, err := marshalValue(ev.New)
	if err != nil {
		return fmt.Errorf("append change: %w", err)
	}

	_, err = j.db.Exec(`
		INSERT INTO changes (tx_token, owner, attr, old_value, new_value)
		VALUES (?, ?, ?, ?, ?)
	`,
		ev.TxToken,
		ev.Owner.Label(),
		ev.Attr,
		oldJSON,
		newJSON,
	)
	if err != nil {
		return fmt.Errorf("append change: %w", err)
	}

	j.logger.Debug("change recorded",
		"owner", ev.Owner.Label(),
		"attr", ev.Attr,
		"tx", ev.TxToken,
	)
	return nil
}

// marshalValue serializes a stored attribute value to JSON.
// Generator nodes are opaque; they journal as a marker object rather than
// their samples (the node, not its output, is the stored value).
func marshalValue(v any) (string, error) {
	if node, ok := v.(gen.Node); ok {
		b, err := json.Marshal(map[string]any{
			"generator":      fmt.Sprintf("%T", node),
			"time_dependent": node.TimeDependent(),
		})
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("unsupported value %T: %w", v, err)
	}
	return string(b), nil
}
