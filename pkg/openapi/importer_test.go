package openapi_test

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-xlsform/pkg/fieldtype"
	"github.com/goliatone/go-xlsform/pkg/openapi"
	"github.com/goliatone/go-xlsform/pkg/pipeline"
)

const registrationSpec = `{
  "openapi": "3.0.0",
  "info": {"title": "Registrations", "version": "1.0.0"},
  "paths": {
    "/registrations": {
      "post": {
        "operationId": "createRegistration",
        "summary": "Create Registration",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["age"],
                "properties": {
                  "age": {"type": "integer", "title": "Age"},
                  "gender": {"type": "string", "enum": ["Male", "Female"]},
                  "newsletter": {"type": "boolean"},
                  "birthday": {"type": "string", "format": "date"},
                  "weight": {"type": "number", "description": "Weight in <b>kilograms</b>"}
                }
              }
            }
          }
        },
        "responses": {"201": {"description": "created"}}
      }
    }
  }
}`

func TestImportOperation(t *testing.T) {
	doc, err := openapi.NewImporter().Import(context.Background(), []byte(registrationSpec), "createRegistration")
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if doc.FormID != "createregistration" {
		t.Fatalf("form id = %q", doc.FormID)
	}
	if doc.Title != "Create Registration" {
		t.Fatalf("title = %q", doc.Title)
	}

	byName := make(map[string]int)
	for i, f := range doc.Fields {
		byName[f.Name] = i
	}

	age := doc.Fields[byName["age"]]
	if age.Type != fieldtype.Integer || !age.Required || age.Label != "Age" {
		t.Fatalf("age = %#v", age)
	}

	gender := doc.Fields[byName["gender"]]
	if gender.Type != fieldtype.SelectOne || gender.ChoiceListRef != "gender_choices" {
		t.Fatalf("gender = %#v", gender)
	}
	options, err := doc.Registry().Resolve("gender_choices")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(options) != 2 || options[0].Label != "Male" || options[0].Value != "male" {
		t.Fatalf("options = %#v", options)
	}

	newsletter := doc.Fields[byName["newsletter"]]
	if newsletter.Type != fieldtype.SelectOne || newsletter.ChoiceListRef != "yes_no" {
		t.Fatalf("newsletter = %#v", newsletter)
	}

	if doc.Fields[byName["birthday"]].Type != fieldtype.Date {
		t.Fatalf("birthday = %#v", doc.Fields[byName["birthday"]])
	}
	weight := doc.Fields[byName["weight"]]
	if weight.Type != fieldtype.Decimal {
		t.Fatalf("weight = %#v", weight)
	}
	if weight.Hint != "Weight in kilograms" {
		t.Fatalf("hint = %q, want HTML stripped on import", weight.Hint)
	}
}

func TestImportedDocumentCompiles(t *testing.T) {
	doc, err := openapi.NewImporter().Import(context.Background(), []byte(registrationSpec), "createRegistration")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	result := pipeline.New().Compile(context.Background(), pipeline.Request{Document: doc})
	if !result.Success {
		t.Fatalf("compile failed: %#v", result.Errors)
	}
	if !strings.Contains(result.XFormXML, `<select1 ref="/createregistration/gender">`) {
		t.Fatalf("gender control missing:\n%s", result.XFormXML)
	}
}

func TestImportUnknownOperation(t *testing.T) {
	_, err := openapi.NewImporter().Import(context.Background(), []byte(registrationSpec), "nope")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("error = %v", err)
	}
}

func TestImportEmptyPayload(t *testing.T) {
	if _, err := openapi.NewImporter().Import(context.Background(), nil, "x"); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}
