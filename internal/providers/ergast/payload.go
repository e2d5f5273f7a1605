package ergast

import (
	"fmt"
	"strconv"
)

// RaceTable is the schedule part of an MRData payload
type RaceTable struct {
	Season int
	Total  int // 0 when upstream omits it
	Races  []interface{}
}

// StandingsList is the latest standings list of an MRData payload
type StandingsList struct {
	Season  int
	Round   int
	Entries []interface{}
}

// ExtractRaceTable reads MRData.RaceTable.Races
func ExtractRaceTable(payload map[string]interface{}) (RaceTable, error) {
	mr, ok := payload["MRData"].(map[string]interface{})
	if !ok {
		return RaceTable{}, fmt.Errorf("%w: no MRData", ErrSchema)
	}

	table, ok := mr["RaceTable"].(map[string]interface{})
	if !ok {
		return RaceTable{}, fmt.Errorf("%w: no RaceTable", ErrSchema)
	}

	races, ok := table["Races"].([]interface{})
	if !ok {
		return RaceTable{}, fmt.Errorf("%w: no Races", ErrSchema)
	}

	return RaceTable{
		Season: atoi(table["season"]),
		Total:  atoi(mr["total"]),
		Races:  races,
	}, nil
}

// ExtractStandings reads MRData.StandingsTable.StandingsLists[0][listKey].
// An empty StandingsLists (no race run yet) yields no entries; a missing one is a schema error.
func ExtractStandings(payload map[string]interface{}, listKey string) (StandingsList, error) {
	mr, ok := payload["MRData"].(map[string]interface{})
	if !ok {
		return StandingsList{}, fmt.Errorf("%w: no MRData", ErrSchema)
	}

	table, ok := mr["StandingsTable"].(map[string]interface{})
	if !ok {
		return StandingsList{}, fmt.Errorf("%w: no StandingsTable", ErrSchema)
	}

	lists, ok := table["StandingsLists"].([]interface{})
	if !ok {
		return StandingsList{}, fmt.Errorf("%w: no StandingsLists", ErrSchema)
	}

	result := StandingsList{Season: atoi(table["season"])}
	if len(lists) == 0 {
		return result, nil
	}

	latest, ok := lists[0].(map[string]interface{})
	if !ok {
		return StandingsList{}, fmt.Errorf("%w: StandingsLists[0] is not an object", ErrSchema)
	}

	entries, ok := latest[listKey].([]interface{})
	if !ok {
		return StandingsList{}, fmt.Errorf("%w: no %s", ErrSchema, listKey)
	}

	if s := atoi(latest["season"]); s > 0 {
		result.Season = s
	}
	result.Round = atoi(latest["round"])
	result.Entries = entries

	return result, nil
}

// atoi reads Ergast's string-encoded integers, returning 0 for anything else
func atoi(v interface{}) int {
	switch val := v.(type) {
	case string:
		i, _ := strconv.Atoi(val)
		return i
	case float64:
		return int(val)
	default:
		return 0
	}
}
