package handlers

import (
	"strings"
	"testing"

	"github.com/example/bookmyroom/internal/model"
)

func TestParseUsersCSV(t *testing.T) {
	input := "name,email,role\n" +
		"Jana Novak,JANA@example.com,employee\n" +
		"No Role,norole@example.com,manager\n" +
		",missing@example.com,viewer\n" +
		"Admin One,admin@example.com,admin\n"

	rows, rowErrs, err := parseUsersCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseUsersCSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 valid rows, got %d", len(rows))
	}
	if rows[0].email != "jana@example.com" {
		t.Fatalf("email not lowercased: %q", rows[0].email)
	}
	if rows[0].role != model.RoleEmployee || rows[1].role != model.RoleAdmin {
		t.Fatalf("roles wrong: %v %v", rows[0].role, rows[1].role)
	}
	if len(rowErrs) != 2 {
		t.Fatalf("expected 2 row errors, got %d: %v", len(rowErrs), rowErrs)
	}
	if rowErrs[0].Line != 3 || rowErrs[1].Line != 4 {
		t.Fatalf("row error lines wrong: %v", rowErrs)
	}
}

func TestParseUsersCSVRejectsBadHeader(t *testing.T) {
	_, _, err := parseUsersCSV(strings.NewReader("email,name,role\na@b.c,A,viewer\n"))
	if err == nil {
		t.Fatal("expected header error")
	}
}

func TestParseRoomsCSV(t *testing.T) {
	input := "room_number,capacity,floor,building_address\n" +
		"A-101,8,1,Mlynska 5\n" +
		"A-102,zero,1,Mlynska 5\n" +
		"B-201,4,-1,Hlavna 12\n"

	rows, rowErrs, err := parseRoomsCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseRoomsCSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 valid rows, got %d", len(rows))
	}
	if rows[0].roomNumber != "A-101" || rows[0].capacity != 8 {
		t.Fatalf("first row wrong: %+v", rows[0])
	}
	// Basement floors are legal, zero capacity is not.
	if rows[1].floor != -1 {
		t.Fatalf("negative floor should parse, got %+v", rows[1])
	}
	if len(rowErrs) != 1 || rowErrs[0].Line != 3 {
		t.Fatalf("expected one error on line 3, got %v", rowErrs)
	}
}

func TestParseRoomsCSVMalformedRow(t *testing.T) {
	input := "room_number,capacity,floor,building_address\n" +
		"A-101,8,1\n"

	rows, rowErrs, err := parseRoomsCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseRoomsCSV: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no valid rows, got %d", len(rows))
	}
	if len(rowErrs) != 1 {
		t.Fatalf("expected one malformed-row error, got %v", rowErrs)
	}
}
