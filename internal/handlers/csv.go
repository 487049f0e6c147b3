package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/bookmyroom/internal/db"
	"github.com/example/bookmyroom/internal/model"
	"github.com/example/bookmyroom/internal/storage"
)

// CSVHandler bulk-loads and dumps users and rooms. The column formats match
// the files the facilities team already keeps: users are name,email,role and
// rooms are room_number,capacity,floor,building_address.
type CSVHandler struct {
	users     *storage.UserRepository
	rooms     *storage.RoomRepository
	buildings *storage.BuildingRepository
	logger    *slog.Logger
}

func NewCSVHandler(users *storage.UserRepository, rooms *storage.RoomRepository, buildings *storage.BuildingRepository, logger *slog.Logger) *CSVHandler {
	return &CSVHandler{users: users, rooms: rooms, buildings: buildings, logger: logger}
}

type csvRowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

type csvImportResult struct {
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Errors   []csvRowError `json:"errors"`
}

type userRow struct {
	line  int
	name  string
	email string
	role  model.Role
}

type roomRow struct {
	line            int
	roomNumber      string
	capacity        int
	floor           int
	buildingAddress string
}

var userCSVHeader = []string{"name", "email", "role"}
var roomCSVHeader = []string{"room_number", "capacity", "floor", "building_address"}

func parseUsersCSV(r io.Reader) ([]userRow, []csvRowError, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("missing header row: %w", err)
	}
	if err := checkHeader(header, userCSVHeader); err != nil {
		return nil, nil, err
	}

	var rows []userRow
	var rowErrs []csvRowError
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			rowErrs = append(rowErrs, csvRowError{Line: line, Message: "malformed row"})
			continue
		}
		name := strings.TrimSpace(record[0])
		email := strings.TrimSpace(strings.ToLower(record[1]))
		if name == "" || email == "" {
			rowErrs = append(rowErrs, csvRowError{Line: line, Message: "name and email required"})
			continue
		}
		role, ok := model.ParseRole(strings.TrimSpace(record[2]))
		if !ok {
			rowErrs = append(rowErrs, csvRowError{Line: line, Message: fmt.Sprintf("unknown role %q", record[2])})
			continue
		}
		rows = append(rows, userRow{line: line, name: name, email: email, role: role})
	}
	return rows, rowErrs, nil
}

func parseRoomsCSV(r io.Reader) ([]roomRow, []csvRowError, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("missing header row: %w", err)
	}
	if err := checkHeader(header, roomCSVHeader); err != nil {
		return nil, nil, err
	}

	var rows []roomRow
	var rowErrs []csvRowError
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			rowErrs = append(rowErrs, csvRowError{Line: line, Message: "malformed row"})
			continue
		}
		roomNumber := strings.TrimSpace(record[0])
		address := strings.TrimSpace(record[3])
		if roomNumber == "" || address == "" {
			rowErrs = append(rowErrs, csvRowError{Line: line, Message: "room_number and building_address required"})
			continue
		}
		capacity, err := strconv.Atoi(strings.TrimSpace(record[1]))
		if err != nil || capacity <= 0 {
			rowErrs = append(rowErrs, csvRowError{Line: line, Message: fmt.Sprintf("bad capacity %q", record[1])})
			continue
		}
		floor, err := strconv.Atoi(strings.TrimSpace(record[2]))
		if err != nil {
			rowErrs = append(rowErrs, csvRowError{Line: line, Message: fmt.Sprintf("bad floor %q", record[2])})
			continue
		}
		rows = append(rows, roomRow{
			line:            line,
			roomNumber:      roomNumber,
			capacity:        capacity,
			floor:           floor,
			buildingAddress: address,
		})
	}
	return rows, rowErrs, nil
}

func checkHeader(got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("expected header %s", strings.Join(want, ","))
	}
	for i := range want {
		if !strings.EqualFold(strings.TrimSpace(got[i]), want[i]) {
			return fmt.Errorf("expected header %s", strings.Join(want, ","))
		}
	}
	return nil
}

func (h *CSVHandler) ImportUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rows, rowErrs, err := parseUsersCSV(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := csvImportResult{Errors: rowErrs}
	for _, row := range rows {
		_, err := h.users.Create(r.Context(), model.User{Name: row.name, Email: row.email, Role: row.role})
		if err != nil {
			if db.IsUniqueViolation(err) {
				result.Skipped++
				continue
			}
			h.logger.Error("csv user insert failed", "err", err, "line", row.line)
			result.Errors = append(result.Errors, csvRowError{Line: row.line, Message: "insert failed"})
			continue
		}
		result.Imported++
	}
	if result.Errors == nil {
		result.Errors = []csvRowError{}
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *CSVHandler) ExportUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	users, err := h.users.List(r.Context())
	if err != nil {
		http.Error(w, "failed to list users", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="users.csv"`)
	writer := csv.NewWriter(w)
	_ = writer.Write(userCSVHeader)
	for _, u := range users {
		_ = writer.Write([]string{u.Name, u.Email, string(u.Role)})
	}
	writer.Flush()
}

// ImportRooms resolves each row's building by postal address; rows naming
// an unknown building are reported, not dropped silently.
func (h *CSVHandler) ImportRooms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rows, rowErrs, err := parseRoomsCSV(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := csvImportResult{Errors: rowErrs}
	for _, row := range rows {
		building, err := h.buildings.GetByAddress(r.Context(), row.buildingAddress)
		if err != nil {
			if db.IsNotFound(err) {
				result.Errors = append(result.Errors, csvRowError{Line: row.line, Message: fmt.Sprintf("unknown building %q", row.buildingAddress)})
				continue
			}
			http.Error(w, "failed to resolve building", http.StatusInternalServerError)
			return
		}
		_, err = h.rooms.Create(r.Context(), model.Room{
			RoomNumber: row.roomNumber,
			Capacity:   row.capacity,
			Floor:      row.floor,
			BuildingID: building.ID,
		})
		if err != nil {
			if db.IsUniqueViolation(err) {
				result.Skipped++
				continue
			}
			h.logger.Error("csv room insert failed", "err", err, "line", row.line)
			result.Errors = append(result.Errors, csvRowError{Line: row.line, Message: "insert failed"})
			continue
		}
		result.Imported++
	}
	if result.Errors == nil {
		result.Errors = []csvRowError{}
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *CSVHandler) ExportRooms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rooms, err := h.rooms.List(r.Context(), "")
	if err != nil {
		http.Error(w, "failed to list rooms", http.StatusInternalServerError)
		return
	}
	buildings, err := h.buildings.List(r.Context())
	if err != nil {
		http.Error(w, "failed to list buildings", http.StatusInternalServerError)
		return
	}
	addressByID := make(map[string]string, len(buildings))
	for _, b := range buildings {
		addressByID[b.ID] = b.Address
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="rooms.csv"`)
	writer := csv.NewWriter(w)
	_ = writer.Write(roomCSVHeader)
	for _, rm := range rooms {
		_ = writer.Write([]string{
			rm.RoomNumber,
			strconv.Itoa(rm.Capacity),
			strconv.Itoa(rm.Floor),
			addressByID[rm.BuildingID],
		})
	}
	writer.Flush()
}
