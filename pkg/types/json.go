package types

// JSONMap is a free-form jsonb payload stored via GORM's json serializer.
type JSONMap map[string]any

// StringArray is a jsonb-backed list of strings.
type StringArray []string
