package scheduler

import (
	"context"
	"errors"
	"time"

	"gamearena/backend/internal/apperr"
	"gamearena/backend/internal/models"
	"gamearena/backend/internal/repository"
)

// StartDueRooms moves open and full rooms whose start time is not after now
// to started, and returns how many it moved.
func StartDueRooms(ctx context.Context, rooms repository.RoomStore, now time.Time) (int, error) {
	n := 0
	for _, status := range []models.RoomStatus{models.RoomOpen, models.RoomFull} {
		list, err := rooms.List(ctx, repository.RoomFilter{Status: status})
		if err != nil {
			return n, err
		}
		for i := range list {
			startsAt, err := list[i].StartsAt(now.Location())
			if err != nil || startsAt.After(now) {
				continue
			}
			_, err = rooms.UpdateByID(ctx, list[i].ID, func(r *models.GameRoom) error {
				if r.Status != models.RoomOpen && r.Status != models.RoomFull {
					return errAlreadyMoved
				}
				r.Status = models.RoomStarted
				return nil
			})
			switch {
			case err == nil:
				n++
			case errors.Is(err, errAlreadyMoved), errors.Is(err, apperr.ErrConflict):
			default:
				return n, err
			}
		}
	}
	return n, nil
}

var errAlreadyMoved = errors.New("room already left registration")
