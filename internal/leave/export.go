package leave

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const exportSheet = "Leaves"

var exportHeader = []any{
	"Reference", "Employee", "Employee ID", "Leave Type", "Kind",
	"Dates", "Days", "Status", "Step", "Reason", "Created At",
}

// Export renders Records as an xlsx workbook.
func (s *service) Export(ctx context.Context, actorID uuid.UUID, req RecordsRequest) ([]byte, error) {
	rows, err := s.records(ctx, actorID, req)
	if err != nil {
		return nil, err
	}
	b, err := writeWorkbook(rows)
	if err != nil {
		s.logger.Error("failed to render leave export", zap.Error(err))
		return nil, err
	}
	s.logger.Info("leave records exported",
		zap.String("actor_id", actorID.String()),
		zap.String("from", req.From),
		zap.String("to", req.To),
		zap.Int("rows", len(rows)),
	)
	return b, nil
}

func writeWorkbook(rows []LeaveRequest) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(exportSheet, 1, 1, bold); err != nil {
		return nil, err
	}

	for i, r := range rows {
		resp := mapToResponse(r)
		employeeNumber := ""
		if r.Employee != nil {
			employeeNumber = r.Employee.EmployeeNumber
		}
		row := []any{
			resp.ReferenceNo,
			resp.EmployeeName,
			employeeNumber,
			resp.LeaveType,
			resp.Kind,
			strings.Join(resp.Dates, ", "),
			resp.Days,
			resp.Status,
			fmt.Sprintf("%d/%d", resp.CurrentApprovalStep, resp.TotalSteps),
			resp.Reason,
			r.CreatedAt.Format("2006-01-02 15:04"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(exportSheet, "A", "K", 18); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
