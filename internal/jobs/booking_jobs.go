package jobs

import (
	"context"
	"time"

	"vehicle-rental-backend/internal/logger"
)

const reminderWindow = 24 * time.Hour

// ExpirePendingBookings expires pending bookings whose start date has passed
// without confirmation and tells the lessee
func (jr *JobRunner) ExpirePendingBookings() {
	jr.runWithRecovery("ExpirePendingBookings", jr.expirePendingBookings)
}

func (jr *JobRunner) expirePendingBookings(ctx context.Context) (int, error) {
	expired, err := jr.services.Bookings.ExpireStaleBookings(ctx, jr.now())
	if err != nil {
		return len(expired), err
	}

	for i := range expired {
		b := &expired[i]
		user, err := jr.services.Users.GetByID(ctx, b.LesseeID)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to load lessee for expiry notice", "booking_id", b.ID, "lessee_id", b.LesseeID, "error", err)
			continue
		}
		if err := jr.services.Email.SendBookingExpiredNotification(ctx, user.Email, user.Name, b); err != nil {
			logger.ErrorContext(ctx, "Failed to send expiry notice", "booking_id", b.ID, "email", user.Email, "error", err)
			continue
		}
		logger.FromContext(ctx).DebugContext(ctx, "Sent expiry notice", "booking_id", b.ID, "lessee_id", b.LesseeID)
	}
	return len(expired), nil
}

// SendTripReminders reminds lessees of confirmed bookings starting within the next day
func (jr *JobRunner) SendTripReminders() {
	jr.runWithRecovery("SendTripReminders", jr.sendTripReminders)
}

func (jr *JobRunner) sendTripReminders(ctx context.Context) (int, error) {
	now := jr.now()
	upcoming, err := jr.services.Upcoming.ListConfirmedStartingBetween(ctx, now, now.Add(reminderWindow))
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range upcoming {
		b := &upcoming[i]
		user, err := jr.services.Users.GetByID(ctx, b.LesseeID)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to load lessee for trip reminder", "booking_id", b.ID, "lessee_id", b.LesseeID, "error", err)
			continue
		}
		if err := jr.services.Email.SendTripReminder(ctx, user.Email, user.Name, b); err != nil {
			logger.ErrorContext(ctx, "Failed to send trip reminder", "booking_id", b.ID, "email", user.Email, "error", err)
			continue
		}
		sent++
	}
	return sent, nil
}
