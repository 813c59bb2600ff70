package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tonyorjime-cloud/WorNest/internal/assignment"
	"github.com/tonyorjime-cloud/WorNest/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeLeaveApproved books a cover assignment for the confirmed
// reliever whenever a leave request is approved. The reliever gets one
// task spanning the leave window so their open-task load reflects the
// cover duty in later selections.
func ConsumeLeaveApproved(
	ctx context.Context,
	reader *kafkago.Reader,
	assignmentService assignment.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_approved")
	log.Info("leave approved consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave approved consumer stopped")
				return
			}
			log.Error("fetch leave approved message failed", zap.Error(err))
			continue
		}

		var event events.LeaveApprovedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave_approved event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if event.RelieverID == "" {
			log.Warn("leave_approved event without reliever, skipping",
				zap.String("leave_id", event.LeaveID),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		req, err := coverAssignmentRequest(event)
		if err != nil {
			log.Error("build cover assignment failed",
				zap.String("leave_id", event.LeaveID),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		_, err = assignmentService.Create(ctx, event.CompanyID, req)
		if err != nil {
			log.Error("create cover assignment failed",
				zap.String("leave_id", event.LeaveID),
				zap.String("reliever_id", event.RelieverID),
				zap.String("company_id", event.CompanyID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave approved message failed", zap.Error(err))
			continue
		}

		log.Info("cover assignment booked",
			zap.String("leave_id", event.LeaveID),
			zap.String("reliever_id", event.RelieverID),
			zap.String("company_id", event.CompanyID),
		)
	}
}

func coverAssignmentRequest(event events.LeaveApprovedEvent) (assignment.CreateAssignmentRequest, error) {
	start, err := time.Parse("2006-01-02", event.StartDate)
	if err != nil {
		return assignment.CreateAssignmentRequest{}, fmt.Errorf("parse start_date: %w", err)
	}
	end, err := time.Parse("2006-01-02", event.EndDate)
	if err != nil {
		return assignment.CreateAssignmentRequest{}, fmt.Errorf("parse end_date: %w", err)
	}

	days := int(end.Sub(start).Hours()/24) + 1
	if days < 1 {
		days = 1
	}

	return assignment.CreateAssignmentRequest{
		StaffID:      event.RelieverID,
		Title:        fmt.Sprintf("Cover duty for leave %s", event.LeaveID),
		ProjectCode:  "LEAVE-COVER",
		DueDate:      event.EndDate,
		DaysAllotted: days,
	}, nil
}
