package models

import "testing"

func TestSongValidate(t *testing.T) {
	tests := []struct {
		name    string
		song    Song
		wantErr bool
	}{
		{"valid", Song{ID: "s1", Title: "Evidências", Artists: []string{"Chitãozinho & Xororó"}}, false},
		{"missing title", Song{ID: "s2", Artists: []string{"Alguém"}}, true},
		{"missing artists", Song{ID: "s3", Title: "Sem Artista"}, true},
		{"empty artist list", Song{ID: "s4", Title: "Vazio", Artists: []string{}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.song.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSongClone(t *testing.T) {
	song := Song{
		ID:         "s1",
		Title:      "Garota de Ipanema",
		Artists:    []string{"Tom Jobim"},
		Categories: []string{"MPB"},
	}

	snapshot := song.Clone()
	song.Categories[0] = "Bossa Nova"

	if snapshot.Categories[0] != "MPB" {
		t.Error("clone should not share category storage with the original")
	}
}

func TestDefaultThumbnail(t *testing.T) {
	got := DefaultThumbnail("https://picsum.photos/400/400", "abc123")
	want := "https://picsum.photos/400/400?sig=abc123"
	if got != want {
		t.Errorf("DefaultThumbnail() = %q, want %q", got, want)
	}
}

func TestCategoryValidate(t *testing.T) {
	if err := (Category{ID: "c1", Name: "Rock"}).Validate(); err != nil {
		t.Errorf("valid category failed validation: %v", err)
	}
	if err := (Category{ID: "c2", Name: "   "}).Validate(); err == nil {
		t.Error("blank category name should fail validation")
	}
}
