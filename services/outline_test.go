package services

import (
	"reflect"
	"testing"

	"course-folder-api/models"
)

func TestMergeOutlineOverwritesScalars(t *testing.T) {
	existing := models.JSONMap{"title": "Data Structures", "credit_hours": 3}
	patch := models.JSONMap{"title": "Data Structures and Algorithms"}

	merged := MergeOutline(existing, patch)

	if merged["title"] != "Data Structures and Algorithms" {
		t.Fatalf("title = %v", merged["title"])
	}
	if merged["credit_hours"] != 3 {
		t.Fatalf("untouched key lost: %v", merged["credit_hours"])
	}
}

func TestMergeOutlineMergesNestedMaps(t *testing.T) {
	existing := models.JSONMap{
		"grading": map[string]interface{}{
			"quizzes":  15,
			"midterm":  25,
			"final":    40,
			"projects": 20,
		},
	}
	patch := models.JSONMap{
		"grading": map[string]interface{}{
			"midterm": 30,
		},
	}

	merged := MergeOutline(existing, patch)

	grading, ok := merged["grading"].(map[string]interface{})
	if !ok {
		t.Fatalf("grading is %T", merged["grading"])
	}
	if grading["midterm"] != 30 {
		t.Fatalf("midterm = %v", grading["midterm"])
	}
	if grading["quizzes"] != 15 || grading["final"] != 40 || grading["projects"] != 20 {
		t.Fatalf("sibling keys lost: %v", grading)
	}
}

func TestMergeOutlineNullDeletesKey(t *testing.T) {
	existing := models.JSONMap{"title": "Old", "prerequisites": "CS101"}
	patch := models.JSONMap{"prerequisites": nil}

	merged := MergeOutline(existing, patch)

	if _, present := merged["prerequisites"]; present {
		t.Fatal("null patch value must delete the key")
	}
	if merged["title"] != "Old" {
		t.Fatalf("title = %v", merged["title"])
	}
}

func TestMergeOutlineArraysOverwrite(t *testing.T) {
	existing := models.JSONMap{"books": []interface{}{"CLRS", "Sedgewick"}}
	patch := models.JSONMap{"books": []interface{}{"CLRS"}}

	merged := MergeOutline(existing, patch)

	books, ok := merged["books"].([]interface{})
	if !ok || len(books) != 1 || books[0] != "CLRS" {
		t.Fatalf("books = %v", merged["books"])
	}
}

func TestMergeOutlineMapReplacesScalar(t *testing.T) {
	existing := models.JSONMap{"grading": "see handbook"}
	patch := models.JSONMap{
		"grading": map[string]interface{}{"midterm": 30},
	}

	merged := MergeOutline(existing, patch)

	grading, ok := merged["grading"].(map[string]interface{})
	if !ok || grading["midterm"] != 30 {
		t.Fatalf("grading = %v", merged["grading"])
	}
}

func TestMergeOutlineDoesNotMutateInputs(t *testing.T) {
	existing := models.JSONMap{
		"title": "Old",
		"grading": map[string]interface{}{
			"midterm": 25,
		},
	}
	patch := models.JSONMap{
		"title": "New",
		"grading": map[string]interface{}{
			"final": 50,
		},
	}

	existingCopy := models.JSONMap{
		"title": "Old",
		"grading": map[string]interface{}{
			"midterm": 25,
		},
	}
	patchCopy := models.JSONMap{
		"title": "New",
		"grading": map[string]interface{}{
			"final": 50,
		},
	}

	MergeOutline(existing, patch)

	if !reflect.DeepEqual(existing, existingCopy) {
		t.Fatalf("existing mutated: %v", existing)
	}
	if !reflect.DeepEqual(patch, patchCopy) {
		t.Fatalf("patch mutated: %v", patch)
	}
}

func TestMergeOutlineEmptyInputs(t *testing.T) {
	if merged := MergeOutline(nil, nil); len(merged) != 0 {
		t.Fatalf("merging nil maps: %v", merged)
	}

	merged := MergeOutline(nil, models.JSONMap{"title": "New"})
	if merged["title"] != "New" {
		t.Fatalf("patch onto nil: %v", merged)
	}

	merged = MergeOutline(models.JSONMap{"title": "Old"}, nil)
	if merged["title"] != "Old" {
		t.Fatalf("nil patch: %v", merged)
	}
}
