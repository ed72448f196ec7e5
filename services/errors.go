package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound dikembalikan jika order/MO/jobsheet/task tidak ada
	// saat cascade atau approval dimulai; tidak ada write yang terjadi.
	ErrNotFound = errors.New("record not found")

	// ErrConcurrencyConflict berarti transaksi cascade kalah serialisasi
	// melawan cascade lain pada chain ancestor yang sama. Seluruh cascade
	// harus diulang dari awal, tidak boleh dilanjutkan sebagian.
	ErrConcurrencyConflict = errors.New("concurrent cascade conflict")
)

// InvalidTransitionError dikembalikan jika approval action dicoba dari
// status yang tidak mengizinkannya. State order tidak berubah.
type InvalidTransitionError struct {
	Action  string
	Current string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: action %q not allowed from status %q", e.Action, e.Current)
}

// InvariantError menandai hasil komputasi yang melanggar invariant
// (progress di luar 0-100). Tidak boleh terjadi pada kode yang benar;
// ditolak sebelum persist.
type InvariantError struct {
	Message string
}

func (e *InvariantError) Error() string {
	return e.Message
}
