package board

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Item is a board item together with its raw column values, keyed by
// column ID. Column payloads stay opaque here; decoding belongs to the
// column codecs.
type Item struct {
	ID           string
	Name         string
	ColumnValues map[string]json.RawMessage
}

// columnValueEntry is the wire shape of one column value in an items query.
type columnValueEntry struct {
	ID    string          `json:"id"`
	Value json.RawMessage `json:"value"`
}

// UnmarshalJSON folds the column value list into a map keyed by column ID.
func (i *Item) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID           string             `json:"id"`
		Name         string             `json:"name"`
		ColumnValues []columnValueEntry `json:"column_values"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	i.ID = wire.ID
	i.Name = wire.Name
	i.ColumnValues = make(map[string]json.RawMessage, len(wire.ColumnValues))
	for _, cv := range wire.ColumnValues {
		i.ColumnValues[cv.ID] = cv.Value
	}
	return nil
}

// CreateItem creates an item on a board with the given column values and
// returns the new item's ID.
func (c *Client) CreateItem(ctx context.Context, boardID, name string, columnValues map[string]any) (string, error) {
	encoded, err := json.Marshal(columnValues)
	if err != nil {
		return "", fmt.Errorf("failed to encode column values: %w", err)
	}

	query := `
		mutation ($boardId: ID!, $name: String!, $columnValues: JSON!) {
			create_item(board_id: $boardId, item_name: $name, column_values: $columnValues) {
				id
			}
		}
	`
	var result struct {
		CreateItem struct {
			ID string `json:"id"`
		} `json:"create_item"`
	}
	err = c.execute(ctx, query, map[string]any{
		"boardId":      boardID,
		"name":         name,
		"columnValues": string(encoded),
	}, &result)
	if err != nil {
		return "", fmt.Errorf("failed to create item: %w", err)
	}

	c.logger.Info("Created board item",
		zap.String("board_id", boardID),
		zap.String("item_id", result.CreateItem.ID))
	return result.CreateItem.ID, nil
}

// UpdateItemColumns overwrites the given column values of an existing item.
func (c *Client) UpdateItemColumns(ctx context.Context, boardID, itemID string, columnValues map[string]any) error {
	encoded, err := json.Marshal(columnValues)
	if err != nil {
		return fmt.Errorf("failed to encode column values: %w", err)
	}

	query := `
		mutation ($boardId: ID!, $itemId: ID!, $columnValues: JSON!) {
			change_multiple_column_values(board_id: $boardId, item_id: $itemId, column_values: $columnValues) {
				id
			}
		}
	`
	err = c.execute(ctx, query, map[string]any{
		"boardId":      boardID,
		"itemId":       itemID,
		"columnValues": string(encoded),
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to update item %s: %w", itemID, err)
	}

	c.logger.Info("Updated board item",
		zap.String("board_id", boardID),
		zap.String("item_id", itemID))
	return nil
}

// DeleteItem removes an item from its board.
func (c *Client) DeleteItem(ctx context.Context, itemID string) error {
	query := `
		mutation ($itemId: ID!) {
			delete_item(item_id: $itemId) {
				id
			}
		}
	`
	if err := c.execute(ctx, query, map[string]any{"itemId": itemID}, nil); err != nil {
		return fmt.Errorf("failed to delete item %s: %w", itemID, err)
	}

	c.logger.Info("Deleted board item", zap.String("item_id", itemID))
	return nil
}

// QueryItems pages through all items of a board with their column values.
func (c *Client) QueryItems(ctx context.Context, boardID string) ([]Item, error) {
	query := `
		query ($boardId: [ID!], $cursor: String) {
			boards(ids: $boardId) {
				items_page(limit: 100, cursor: $cursor) {
					cursor
					items {
						id
						name
						column_values {
							id
							value
						}
					}
				}
			}
		}
	`

	var items []Item
	var cursor *string
	for {
		variables := map[string]any{"boardId": []string{boardID}}
		if cursor != nil {
			variables["cursor"] = *cursor
		}

		var result struct {
			Boards []struct {
				ItemsPage struct {
					Cursor *string `json:"cursor"`
					Items  []Item  `json:"items"`
				} `json:"items_page"`
			} `json:"boards"`
		}
		if err := c.execute(ctx, query, variables, &result); err != nil {
			return nil, fmt.Errorf("failed to query items: %w", err)
		}
		if len(result.Boards) == 0 {
			return nil, fmt.Errorf("board %s not found", boardID)
		}

		page := result.Boards[0].ItemsPage
		items = append(items, page.Items...)
		if page.Cursor == nil || *page.Cursor == "" {
			break
		}
		cursor = page.Cursor
	}

	return items, nil
}
