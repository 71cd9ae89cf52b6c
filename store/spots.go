/*
LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/ausocean/parkwatch/spot"
)

// LoadSpots returns the spot list saved under key. A key that has never been
// saved gives an empty list.
func (db *DB) LoadSpots(key string) ([]spot.Spot, error) {
	var positions string
	err := db.QueryRow(`SELECT positions FROM spots WHERE key = ?`, key).Scan(&positions)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "could not load spots %q", key)
	}
	spots, err := decodeSpots(positions)
	if err != nil {
		return nil, errors.Wrapf(err, "bad positions for spots %q", key)
	}
	return spots, nil
}

// SaveSpots replaces the spot list saved under key. Every spot must have
// valid coordinates.
func (db *DB) SaveSpots(key string, spots []spot.Spot) error {
	positions, err := encodeSpots(spots)
	if err != nil {
		return err
	}
	_, err = db.Exec(
		`INSERT INTO spots (key, positions, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET positions = excluded.positions, updated_at = excluded.updated_at`,
		key, positions, time.Now().UnixNano(),
	)
	if err != nil {
		return errors.Wrapf(err, "could not save spots %q", key)
	}
	db.log.Debug("saved spots", "key", key, "count", len(spots))
	return nil
}

// Positions are stored as a JSON array of [x, y] pairs.
func encodeSpots(spots []spot.Spot) (string, error) {
	pairs := make([][2]int, len(spots))
	for i, s := range spots {
		if err := s.Check(); err != nil {
			return "", errors.Wrapf(err, "spot %s", spot.Label(i))
		}
		pairs[i] = [2]int{s.X, s.Y}
	}
	b, err := json.Marshal(pairs)
	if err != nil {
		return "", errors.Wrap(err, "could not encode spots")
	}
	return string(b), nil
}

func decodeSpots(positions string) ([]spot.Spot, error) {
	var pairs [][2]int
	if err := json.Unmarshal([]byte(positions), &pairs); err != nil {
		return nil, err
	}
	spots := make([]spot.Spot, len(pairs))
	for i, p := range pairs {
		spots[i] = spot.Spot{X: p[0], Y: p[1]}
		if err := spots[i].Check(); err != nil {
			return nil, errors.Wrapf(err, "spot %s at (%d, %d)", spot.Label(i), p[0], p[1])
		}
	}
	return spots, nil
}
