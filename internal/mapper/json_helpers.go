package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"
)

func toJSON(v interface{}) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(b)
}

func stringsFromJSON(j datatypes.JSON) []string {
	out := []string{}
	if len(j) == 0 {
		return out
	}
	_ = json.Unmarshal(j, &out)
	if out == nil {
		out = []string{}
	}
	return out
}
