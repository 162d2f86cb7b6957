package board

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/hoursboard/timereport/internal/eventtype"
)

// statusSettings is the decoded settings payload of a status column. Labels
// and colors are keyed by status index.
type statusSettings struct {
	Labels       map[string]string `json:"labels"`
	LabelsColors map[string]struct {
		Color string `json:"color"`
	} `json:"labels_colors"`
}

// QueryStatusOptions fetches the configured labels of a status column,
// sorted by index. The legacy settings migration matches against these.
func (c *Client) QueryStatusOptions(ctx context.Context, boardID, columnID string) ([]eventtype.StatusOption, error) {
	query := `
		query ($boardId: [ID!], $columnId: [String!]) {
			boards(ids: $boardId) {
				columns(ids: $columnId) {
					id
					settings_str
				}
			}
		}
	`
	var result struct {
		Boards []struct {
			Columns []struct {
				ID          string `json:"id"`
				SettingsStr string `json:"settings_str"`
			} `json:"columns"`
		} `json:"boards"`
	}
	err := c.execute(ctx, query, map[string]any{
		"boardId":  []string{boardID},
		"columnId": []string{columnID},
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to query column %s: %w", columnID, err)
	}
	if len(result.Boards) == 0 || len(result.Boards[0].Columns) == 0 {
		return nil, fmt.Errorf("column %s not found on board %s", columnID, boardID)
	}

	var settings statusSettings
	if err := json.Unmarshal([]byte(result.Boards[0].Columns[0].SettingsStr), &settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings of column %s: %w", columnID, err)
	}

	options := make([]eventtype.StatusOption, 0, len(settings.Labels))
	for key, label := range settings.Labels {
		index, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		opt := eventtype.StatusOption{Index: index, Label: label}
		if colors, ok := settings.LabelsColors[key]; ok {
			opt.Color = colors.Color
		}
		options = append(options, opt)
	}
	sort.Slice(options, func(i, j int) bool { return options[i].Index < options[j].Index })
	return options, nil
}
