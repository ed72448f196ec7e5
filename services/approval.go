package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/manufacturing-app/models"
	"github.com/yeremiapane/manufacturing-app/utils"
)

// ApprovalAction adalah aksi workflow approval order.
type ApprovalAction string

const (
	ActionSubmitForReview    ApprovalAction = "submit_for_review"
	ActionApproveEngineering ApprovalAction = "approve_engineering"
	ActionSendToClient       ApprovalAction = "send_to_client"
	ActionApproveClient      ApprovalAction = "approve_client"
	ActionReject             ApprovalAction = "reject"
)

// ApprovalResult dikembalikan ke controller untuk dirender + broadcast.
type ApprovalResult struct {
	Order     *models.Order              `json:"order"`
	CreatedMO *models.ManufacturingOrder `json:"created_mo,omitempty"`
	Notified  bool                       `json:"notified"`
}

// ApprovalWorkflow adalah state machine lifecycle order:
// DRAFT -> PLANNING -> MATERIAL_PREPARATION -> IN_PRODUCTION,
// dengan reject mundur satu tahap. approve_client adalah satu-satunya
// transisi yang mengubah bentuk hierarki (membuat satu MO).
type ApprovalWorkflow struct {
	DB      *gorm.DB
	Numbers *NumberGenerator
}

func NewApprovalWorkflow(db *gorm.DB) *ApprovalWorkflow {
	return &ApprovalWorkflow{DB: db, Numbers: NewNumberGenerator()}
}

// ApplyApprovalAction memvalidasi action terhadap status order saat ini
// lalu mengeksekusinya dalam satu transaksi. Transisi tidak valid =>
// InvalidTransitionError tanpa mutasi apapun.
func (aw *ApprovalWorkflow) ApplyApprovalAction(orderID uint, action ApprovalAction, note string, actor string) (*ApprovalResult, error) {
	result := &ApprovalResult{}

	err := aw.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := withUpdateLock(tx).
			First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		switch action {
		case ActionSubmitForReview:
			if order.Status != models.OrderDraft {
				return &InvalidTransitionError{Action: string(action), Current: string(order.Status)}
			}
			order.Status = models.OrderPlanning

		case ActionApproveEngineering:
			if order.Status != models.OrderPlanning {
				return &InvalidTransitionError{Action: string(action), Current: string(order.Status)}
			}
			order.Status = models.OrderMaterial

		case ActionSendToClient:
			if order.Status != models.OrderMaterial {
				return &InvalidTransitionError{Action: string(action), Current: string(order.Status)}
			}
			// Tidak mengubah state; hanya batas notifikasi keluar.
			result.Notified = true

		case ActionApproveClient:
			if order.Status != models.OrderMaterial {
				return &InvalidTransitionError{Action: string(action), Current: string(order.Status)}
			}
			order.Status = models.OrderInProd

			moNumber, err := aw.Numbers.NextMONumber(tx)
			if err != nil {
				return err
			}
			// MO pertama dibuat atomik dengan perubahan status order,
			// di-seed dari planned dates order.
			mo := models.ManufacturingOrder{
				MONumber:         moNumber,
				OrderID:          order.ID,
				ProductName:      order.CustomerName + " - initial batch",
				Quantity:         1,
				Status:           models.MOPlanned,
				ProgressPercent:  0,
				PlannedStartDate: order.PlannedStartDate,
				PlannedEndDate:   order.PlannedEndDate,
				CreatedAt:        time.Now(),
				UpdatedAt:        time.Now(),
			}
			if err := tx.Create(&mo).Error; err != nil {
				return err
			}
			result.CreatedMO = &mo

		case ActionReject:
			switch order.Status {
			case models.OrderPlanning:
				order.Status = models.OrderDraft
			case models.OrderMaterial:
				order.Status = models.OrderPlanning
			default:
				return &InvalidTransitionError{Action: string(action), Current: string(order.Status)}
			}

		default:
			return &InvalidTransitionError{Action: string(action), Current: string(order.Status)}
		}

		// Setiap transisi menambahkan catatan operator bertimestamp
		// ke notes order (free text, bukan bagian state machine).
		stamp := time.Now().Format("2006-01-02 15:04:05")
		line := fmt.Sprintf("[%s] %s by %s", stamp, action, actor)
		if note != "" {
			line += ": " + note
		}
		if order.Notes != "" {
			order.Notes += "\n"
		}
		order.Notes += line

		order.UpdatedAt = time.Now()
		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		result.Order = &order
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Approval action %s applied to order %d (status=%s)",
		action, result.Order.ID, result.Order.Status)
	return result, nil
}
