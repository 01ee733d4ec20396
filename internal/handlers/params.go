package handlers

import (
	"fmt"

	"github.com/gorilla/schema"

	"github.com/vancomm/treasure-sweeper/internal/game"
)

var decoder = func() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}()

// ParseParams reads board params from a query: either a preset name in
// "difficulty" or explicit rows, cols, mines and treasures. An empty query
// yields fallback.
func ParseParams(src map[string][]string, fallback game.Params) (game.Params, error) {
	if len(src) == 0 {
		return fallback, nil
	}
	if names, ok := src["difficulty"]; ok && len(names) > 0 {
		params, ok := game.ParseDifficulty(names[0])
		if !ok {
			return params, fmt.Errorf("unknown difficulty %q", names[0])
		}
		return params, nil
	}

	var params game.Params
	if err := decoder.Decode(&params, src); err != nil {
		return params, err
	}
	return params, nil
}
