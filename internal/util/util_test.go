package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{MissingFields("email"), http.StatusBadRequest},
		{InvalidArgument(MsgInvalidRound), http.StatusBadRequest},
		{NotFound("Team not found"), http.StatusNotFound},
		{Conflict("Email already registered", ""), http.StatusConflict},
		{UnauthorizedError("Invalid login credentials"), http.StatusUnauthorized},
		{fmt.Errorf("wrapped: %w", ErrNotFound), http.StatusNotFound},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := StatusFor(c.err); got != c.want {
			t.Errorf("StatusFor(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func handle(err error) (int, ErrorResponse) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	HandleError(c, err)

	var body ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w.Code, body
}

func TestHandleError_MissingFieldsListsRequired(t *testing.T) {
	code, body := handle(MissingFields("email", "lastCompletedLevel"))
	if code != http.StatusBadRequest || body.Error != "Missing required fields" {
		t.Fatalf("got %d %+v", code, body)
	}
	if len(body.Required) != 2 || body.Required[1] != "lastCompletedLevel" {
		t.Fatalf("required = %v", body.Required)
	}
}

func TestHandleError_DetailBecomesMessage(t *testing.T) {
	code, body := handle(NotFoundWithDetail(MsgEmailNotRegistered, "Please register first before submitting scores"))
	if code != http.StatusNotFound {
		t.Fatalf("status = %d", code)
	}
	if body.Error != MsgEmailNotRegistered || body.Message != "Please register first before submitting scores" {
		t.Fatalf("body = %+v", body)
	}
}

func TestHandleError_InternalKeepsStoreText(t *testing.T) {
	code, body := handle(errors.New(`relation "teams" does not exist`))
	if code != http.StatusInternalServerError || body.Error != `relation "teams" does not exist` {
		t.Fatalf("got %d %+v", code, body)
	}
}

func TestFlexInt(t *testing.T) {
	var v struct {
		Year FlexInt `json:"year"`
	}
	cases := []struct {
		in   string
		want FlexInt
	}{
		{`{"year":3}`, FlexInt{Value: 3, Set: true}},
		{`{"year":"2"}`, FlexInt{Value: 2, Set: true}},
		{`{"year":" 4 "}`, FlexInt{Value: 4, Set: true}},
		{`{"year":2.0}`, FlexInt{Value: 2, Set: true}},
		{`{"year":null}`, FlexInt{}},
		{`{"year":""}`, FlexInt{}},
		{`{}`, FlexInt{}},
		{`{"year":"second"}`, FlexInt{Set: true, Invalid: true}},
		{`{"year":2.5}`, FlexInt{Set: true, Invalid: true}},
		{`{"year":true}`, FlexInt{Set: true, Invalid: true}},
	}
	for _, c := range cases {
		v.Year = FlexInt{}
		if err := json.Unmarshal([]byte(c.in), &v); err != nil {
			t.Fatalf("%s: %v", c.in, err)
		}
		if v.Year != c.want {
			t.Errorf("%s: got %+v, want %+v", c.in, v.Year, c.want)
		}
	}
	for _, in := range []string{`{"year":{}}`, `{"year":[1]}`} {
		if err := json.Unmarshal([]byte(in), &v); err == nil {
			t.Errorf("%s: expected error", in)
		}
	}

	if !(FlexInt{}).Blank() || !(FlexInt{Set: true}).Blank() {
		t.Error("absent and zero values must be blank")
	}
	if (FlexInt{Set: true, Invalid: true}).Blank() || (FlexInt{Value: 1, Set: true}).Blank() {
		t.Error("present values must not be blank")
	}
}

func TestYearSuffix(t *testing.T) {
	for year, want := range map[int]string{1: "st", 2: "nd", 3: "rd", 4: "th", 0: "th"} {
		if got := YearSuffix(year); got != want {
			t.Errorf("YearSuffix(%d) = %q, want %q", year, got, want)
		}
	}
}

func TestParseIntParam(t *testing.T) {
	if n, ok := ParseIntParam(" 5 "); !ok || n != 5 {
		t.Fatalf("got %d %v", n, ok)
	}
	if _, ok := ParseIntParam("5a"); ok {
		t.Fatal("accepted 5a")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Ana@Example.COM "); got != "ana@example.com" {
		t.Fatalf("got %q", got)
	}
}
