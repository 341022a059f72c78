// Package whiteboard converts canonical shape nodes into the store's
// namespaced shape schema. Shapes are flat canvas records, not outliner
// blocks: children of a whiteboard page are re-keyed, migrated to the current
// schema version, and written as one batch.
package whiteboard

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kkpan11/logseq/internal/entities"
	"github.com/kkpan11/logseq/internal/tree"
)

// SchemaVersion is the current namespaced shape schema version.
const SchemaVersion = 2

// ShapesFromNodes re-keys each shape node's fields into the namespaced
// schema, migrates older schema versions, and attaches container metadata
// linking the shape back to its page.
func ShapesFromNodes(pageUUID string, nodes []*tree.Node) ([]entities.Shape, error) {
	shapes := make([]entities.Shape, 0, len(nodes))
	for i, node := range nodes {
		shape, err := shapeFromNode(pageUUID, node)
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		shapes = append(shapes, shape)
	}
	return shapes, nil
}

func shapeFromNode(pageUUID string, node *tree.Node) (entities.Shape, error) {
	props := make(map[string]any, len(node.Properties))
	for k, v := range node.Properties {
		props[k] = v
	}

	migrateShape(props, shapeVersion(props))

	namespaced := make(map[string]any, len(props)+2)
	for k, v := range props {
		namespaced[namespaceKey(k)] = v
	}

	// Container metadata links the shape back to its whiteboard page.
	namespaced["whiteboard/page"] = pageUUID
	namespaced["whiteboard/shape"] = node.UUID.String()

	data, err := json.Marshal(namespaced)
	if err != nil {
		return entities.Shape{}, fmt.Errorf("failed to marshal shape props: %w", err)
	}

	shapeType, _ := namespaced["tldraw/type"].(string)
	if shapeType == "" {
		shapeType = "unknown"
	}

	return entities.Shape{
		UUID:          node.UUID.String(),
		Type:          shapeType,
		Props:         string(data),
		SchemaVersion: SchemaVersion,
	}, nil
}

func shapeVersion(props map[string]any) int {
	switch v := props["version"].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 1
	}
}

// migrateShape rewrites fields of older shape schema versions in place.
// Version 1 named the shape type "shapeType" and the stroke color "stroke".
func migrateShape(props map[string]any, version int) {
	if version >= SchemaVersion {
		return
	}
	if t, ok := props["shapeType"]; ok {
		props["type"] = t
		delete(props, "shapeType")
	}
	if c, ok := props["stroke"]; ok {
		if _, exists := props["color"]; !exists {
			props["color"] = c
		}
		delete(props, "stroke")
	}
	props["version"] = SchemaVersion
}

// namespaceKey places un-namespaced fields under the tldraw namespace.
func namespaceKey(k string) string {
	if strings.Contains(k, "/") {
		return k
	}
	return "tldraw/" + k
}
