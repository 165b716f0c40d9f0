package sportsdata

import (
	"context"
	"fmt"
)

// BoxScore fetches the V3 box score for a game by its score id.
func (c *Client) BoxScore(ctx context.Context, scoreID int) (*BoxScore, error) {
	var box BoxScore
	if err := c.get(ctx, fmt.Sprintf("/stats/json/BoxScoreByScoreIDV3/%d", scoreID), &box); err != nil {
		return nil, err
	}
	if box.Score == nil {
		return nil, ErrNotFound
	}
	return &box, nil
}
