package sheets

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDecodeRowsObjects(t *testing.T) {
	rows, err := DecodeRows([]byte(`[{"dia":"Lunes","apertura":11.5,"estado":true}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0]["apertura"] != json.Number("11.5") {
		t.Fatalf("apertura = %#v, want json.Number", rows[0]["apertura"])
	}
	if rows[0]["estado"] != true {
		t.Fatalf("estado = %#v", rows[0]["estado"])
	}
}

func TestDecodeRowsHeaderRow(t *testing.T) {
	body := `[[" ID ","Nombre","Precio"],["p1","Pizza",25000],["p2","Jugo"]]`

	rows, err := DecodeRows([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["ID"] != "p1" || rows[0]["Precio"] != json.Number("25000") {
		t.Fatalf("unexpected first row: %#v", rows[0])
	}
	if _, ok := rows[1]["Precio"]; ok {
		t.Fatalf("short row should not carry Precio: %#v", rows[1])
	}
}

func TestDecodeRowsJSONP(t *testing.T) {
	rows, err := DecodeRows([]byte(" handle.cb([{\"nombre\":\"Pizza\"}]);\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0]["nombre"] != "Pizza" {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}

func TestDecodeRowsRejectsOtherShapes(t *testing.T) {
	for _, body := range []string{`{"error":"no sheet"}`, `<html>`, `[1,2]`, `[["h"],"x"]`} {
		if _, err := DecodeRows([]byte(body)); !errors.Is(err, ErrUnexpectedShape) {
			t.Fatalf("DecodeRows(%s) err = %v, want ErrUnexpectedShape", body, err)
		}
	}

	rows, err := DecodeRows([]byte(`[]`))
	if err != nil || len(rows) != 0 {
		t.Fatalf("DecodeRows([]) = %v, %v", rows, err)
	}
}
