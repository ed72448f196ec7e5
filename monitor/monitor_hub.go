package monitor

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/yeremiapane/manufacturing-app/models"
	"github.com/yeremiapane/manufacturing-app/utils"
)

// Event types
const (
	EventOrderUpdate     = "order_update"
	EventMOUpdate        = "mo_update"
	EventJobsheetUpdate  = "jobsheet_update"
	EventTaskUpdate      = "task_update"
	EventCascadeUpdate   = "cascade_update"
	EventApprovalUpdate  = "approval_update"
	EventBreakdownAlert  = "breakdown_alert"
	EventFloorNotif      = "floor_notification"
	EventDashboardUpdate = "dashboard_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// MonitorHub menampung semua client dashboard produksi (admin, ppic,
// operator) dan menyiarkan update hierarki secara real-time.
type MonitorHub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var monitorHub = MonitorHub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient -> menambahkan connection ke set dengan role
func RegisterClient(conn *websocket.Conn, role string) {
	monitorHub.mutex.Lock()
	defer monitorHub.mutex.Unlock()
	monitorHub.clients[conn] = role
}

// UnregisterClient -> melepaskan connection
func UnregisterClient(conn *websocket.Conn) {
	monitorHub.mutex.Lock()
	defer monitorHub.mutex.Unlock()
	delete(monitorHub.clients, conn)
	conn.Close()
}

// BroadcastOrderUpdate -> menyiarkan perubahan order ke semua client
func BroadcastOrderUpdate(order models.Order) {
	broadcast(Message{
		Event: EventOrderUpdate,
		Data:  order,
	})
}

// BroadcastMOUpdate -> perubahan manufacturing order
func BroadcastMOUpdate(mo models.ManufacturingOrder) {
	broadcast(Message{
		Event: EventMOUpdate,
		Data:  mo,
	})
}

// BroadcastJobsheetUpdate -> perubahan jobsheet
func BroadcastJobsheetUpdate(jobsheet models.Jobsheet) {
	broadcast(Message{
		Event: EventJobsheetUpdate,
		Data:  jobsheet,
	})
}

// BroadcastTaskUpdate -> perubahan task
func BroadcastTaskUpdate(task models.Task) {
	broadcast(Message{
		Event: EventTaskUpdate,
		Data:  task,
	})
}

// BroadcastCascadeUpdate -> snapshot task + ancestor setelah cascade
func BroadcastCascadeUpdate(data interface{}) {
	broadcast(Message{
		Event: EventCascadeUpdate,
		Data:  data,
	})
}

// BroadcastApprovalUpdate -> hasil approval action pada order
func BroadcastApprovalUpdate(data interface{}) {
	broadcast(Message{
		Event: EventApprovalUpdate,
		Data:  data,
	})
}

// BroadcastBreakdownAlert -> alert kerusakan mesin untuk dashboard
func BroadcastBreakdownAlert(log models.BreakdownLog) {
	broadcast(Message{
		Event: EventBreakdownAlert,
		Data:  log,
	})
}

// BroadcastFloorNotification -> notifikasi umum lantai produksi
func BroadcastFloorNotification(message string) {
	broadcast(Message{
		Event: EventFloorNotif,
		Data:  message,
	})
}

// BroadcastMessage -> broadcast pesan umum
func BroadcastMessage(msg Message) {
	broadcast(msg)
}

// broadcast -> fungsi internal untuk mengirim pesan
func broadcast(msg Message) {
	monitorHub.mutex.Lock()
	defer monitorHub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling message: %v", err)
		return
	}

	for conn := range monitorHub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("Error sending message to client: %v", err)
			continue
		}
	}
}
