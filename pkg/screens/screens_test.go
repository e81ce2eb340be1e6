package screens_test

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/idei-labs/usim/pkg/auth"
	"github.com/idei-labs/usim/pkg/clientstate"
	"github.com/idei-labs/usim/pkg/engine"
	"github.com/idei-labs/usim/pkg/nodeid"
	"github.com/idei-labs/usim/pkg/screens"
	"github.com/idei-labs/usim/pkg/state"
	"github.com/idei-labs/usim/pkg/userdir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStack(t *testing.T) (*engine.Engine, *userdir.Directory, *auth.TokenManager) {
	t.Helper()

	dir, err := userdir.Open(context.Background(), filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = dir.Close() })

	tokens, err := auth.NewTokenManager("test-secret")
	require.NoError(t, err)

	e := engine.New(state.New(state.NewMemoryBackend()))
	require.NoError(t, screens.RegisterAll(e, screens.All(dir, tokens)))
	return e, dir, tokens
}

func nodeID(service, name string) int {
	return nodeid.NewGenerator(service).ID(name)
}

func entryFor(t *testing.T, payload map[string]any, id int) map[string]any {
	t.Helper()
	entry, ok := payload[strconv.Itoa(id)].(map[string]any)
	require.True(t, ok, "payload has no entry for node %d", id)
	return entry
}

func TestCounter_StyleThresholds(t *testing.T) {
	e, _, _ := newTestStack(t)
	ctx := context.Background()
	labelID := nodeID("counter-demo", "counter_label")

	res, err := e.LoadScreen(ctx, "sess-1", "counter-demo", false, nil)
	require.NoError(t, err)
	label := entryFor(t, res.Payload, labelID)
	assert.Equal(t, "1000", label["text"])
	assert.Equal(t, "default", label["style"])
	bag := res.State

	res, err = e.Dispatch(ctx, "sess-1", engine.Event{
		ComponentID: nodeID("counter-demo", "decrement_button"),
		Trigger:     "click",
		Action:      "decrement_counter",
	}, bag)
	require.NoError(t, err)
	label = entryFor(t, res.Payload, labelID)
	assert.Equal(t, "999", label["text"])
	assert.Equal(t, "danger", label["style"])

	res, err = e.Dispatch(ctx, "sess-1", engine.Event{
		ComponentID: nodeID("counter-demo", "reset_button"),
		Trigger:     "click",
		Action:      "reset_counter",
	}, res.State)
	require.NoError(t, err)
	label = entryFor(t, res.Payload, labelID)
	assert.Equal(t, "1000", label["text"])
	assert.Contains(t, res.Payload, "toast")
}

func TestButtonDemo_Toggle(t *testing.T) {
	e, _, _ := newTestStack(t)
	ctx := context.Background()

	res, err := e.LoadScreen(ctx, "sess-1", "button-demo", false, nil)
	require.NoError(t, err)

	res, err = e.Dispatch(ctx, "sess-1", engine.Event{
		ComponentID: nodeID("button-demo", "toggle_button"),
		Trigger:     "click",
		Action:      "toggle_button",
	}, res.State)
	require.NoError(t, err)

	status := entryFor(t, res.Payload, nodeID("button-demo", "toggle_status"))
	assert.Equal(t, "Enabled", status["text"])
	assert.Equal(t, true, res.State.Bool("store_enabled", false))
}

func TestFormDemo_Validation(t *testing.T) {
	e, _, _ := newTestStack(t)
	ctx := context.Background()
	submitID := nodeID("form-demo", "submit_button")

	_, err := e.LoadScreen(ctx, "sess-1", "form-demo", false, nil)
	require.NoError(t, err)

	res, err := e.Dispatch(ctx, "sess-1", engine.Event{
		ComponentID: submitID, Trigger: "click", Action: "submit_form",
		Params: map[string]any{"name": "", "email": "not-an-email"},
	}, nil)
	require.NoError(t, err)

	name := entryFor(t, res.Payload, nodeID("form-demo", "input_name"))
	email := entryFor(t, res.Payload, nodeID("form-demo", "input_email"))
	assert.Equal(t, "Name is required", name["error"])
	assert.Equal(t, "Email address is not valid", email["error"])
	assert.NotContains(t, res.Payload, "toast")

	res, err = e.Dispatch(ctx, "sess-1", engine.Event{
		ComponentID: submitID, Trigger: "click", Action: "submit_form",
		Params: map[string]any{"name": "Jane", "email": "jane@example.com"},
	}, nil)
	require.NoError(t, err)
	assert.Contains(t, res.Payload, "toast")
}

func TestModalDemo_RegisterDialogValidation(t *testing.T) {
	e, _, _ := newTestStack(t)
	ctx := context.Background()

	_, err := e.LoadScreen(ctx, "sess-1", "modal-demo", false, nil)
	require.NoError(t, err)

	res, err := e.Dispatch(ctx, "sess-1", engine.Event{
		ComponentID: nodeID("modal-demo", "register_button"),
		Trigger:     "click",
		Action:      "open_register_dialog",
	}, nil)
	require.NoError(t, err)

	// The dialog tree rides along as full records.
	emailID := nodeID("register-dialog", "dialog_email")
	require.Contains(t, res.Payload, strconv.Itoa(emailID))

	// Submitting an empty email updates the modal instead of closing it.
	res, err = e.Dispatch(ctx, "sess-1", engine.Event{
		ComponentID: nodeID("register-dialog", "dialog_submit"),
		Trigger:     "click",
		Action:      "submit_registration",
		Params: map[string]any{
			engine.CallerServiceKey: nodeID("modal-demo", "modal_root"),
			"email":                 "",
		},
	}, nil)
	require.NoError(t, err)
	assert.Contains(t, res.Payload, "update_modal")
	assert.NotContains(t, res.Payload, "action")

	res, err = e.Dispatch(ctx, "sess-1", engine.Event{
		ComponentID: nodeID("register-dialog", "dialog_submit"),
		Trigger:     "click",
		Action:      "submit_registration",
		Params: map[string]any{
			engine.CallerServiceKey: nodeID("modal-demo", "modal_root"),
			"email":                 "jane@example.com",
		},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "close_modal", res.Payload["action"])
	status := entryFor(t, res.Payload, nodeID("modal-demo", "modal_status"))
	assert.Equal(t, "Registered jane@example.com.", status["text"])
}

func TestMenu_PostLoadFollowsAuthState(t *testing.T) {
	e, _, tokens := newTestStack(t)
	ctx := context.Background()
	menuID := nodeID("menu", "main_menu")

	res, err := e.LoadScreen(ctx, "sess-1", "menu", false, nil)
	require.NoError(t, err)
	menu := entryFor(t, res.Payload, menuID)
	assert.Equal(t, []any{"no-auth"}, menu["permissions"])

	token, err := tokens.Issue("admin@email.com", "Admin", []string{"admin"})
	require.NoError(t, err)

	res, err = e.LoadScreen(ctx, "sess-1", "menu", false, clientstate.Bag{"store_token": token})
	require.NoError(t, err)
	menu = entryFor(t, res.Payload, menuID)
	assert.Equal(t, []any{"admin"}, menu["permissions"])
	trigger, ok := menu["trigger"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Admin", trigger["label"])
}

func TestLogin_Scenario(t *testing.T) {
	e, dir, tokens := newTestStack(t)
	ctx := context.Background()
	require.NoError(t, dir.Seed(ctx, []userdir.SeedUser{
		{Email: "admin@email.com", Name: "Admin", Roles: "admin", Password: "admin123"},
	}))
	buttonID := nodeID("login-screen", "login_button")

	_, err := e.LoadScreen(ctx, "sess-1", "login-screen", false, nil)
	require.NoError(t, err)

	res, err := e.Dispatch(ctx, "sess-1", engine.Event{
		ComponentID: buttonID, Trigger: "click", Action: "login",
		Params: map[string]any{"email": "admin@email.com", "password": "wrong"},
	}, nil)
	require.NoError(t, err)
	password := entryFor(t, res.Payload, nodeID("login-screen", "login_password"))
	assert.Equal(t, "Invalid email or password", password["error"])
	assert.Empty(t, res.State.String("store_token", ""))

	res, err = e.Dispatch(ctx, "sess-1", engine.Event{
		ComponentID: buttonID, Trigger: "click", Action: "login",
		Params: map[string]any{"email": "admin@email.com", "password": "admin123"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "/", res.Payload["redirect"])

	claims, err := tokens.Validate(res.State.String("store_token", ""))
	require.NoError(t, err)
	assert.Equal(t, "admin@email.com", claims.Subject)
}

func TestUsersTable_Pagination(t *testing.T) {
	e, dir, _ := newTestStack(t)
	ctx := context.Background()

	var seeds []userdir.SeedUser
	for i := 0; i < 15; i++ {
		seeds = append(seeds, userdir.SeedUser{
			Email:    "user" + strconv.Itoa(i) + "@email.com",
			Name:     "User " + strconv.Itoa(i),
			Password: "pw",
		})
	}
	require.NoError(t, dir.Seed(ctx, seeds))

	tableID := nodeID("users-table", "users_table")
	res, err := e.LoadScreen(ctx, "sess-1", "users-table", false, nil)
	require.NoError(t, err)
	table := entryFor(t, res.Payload, tableID)
	assert.Equal(t, 15, table["total_rows"])
	assert.Equal(t, 2, table["total_pages"])

	res, err = e.Dispatch(ctx, "sess-1", engine.Event{
		ComponentID: tableID, Trigger: "click", Action: "change_page",
		Params: map[string]any{"page": 2},
	}, res.State)
	require.NoError(t, err)

	table = entryFor(t, res.Payload, tableID)
	assert.Equal(t, 2, table["current_page"])
	assert.Equal(t, 2, res.State.Int("store_users_page", 0))

	// Page two holds the five remaining rows; their records ride in the diff
	// as inserts.
	lastRowID := nodeID("users-table", "user_row_15")
	assert.Contains(t, res.Payload, strconv.Itoa(lastRowID))
}

func TestCalendar_MonthNavigation(t *testing.T) {
	e, _, _ := newTestStack(t)
	ctx := context.Background()
	calID := nodeID("calendar-demo", "event_calendar")

	res, err := e.LoadScreen(ctx, "sess-1", "calendar-demo", false, nil)
	require.NoError(t, err)
	bag := res.State
	year := bag.Int("store_cal_year", 0)
	month := bag.Int("store_cal_month", 0)

	res, err = e.Dispatch(ctx, "sess-1", engine.Event{
		ComponentID: nodeID("calendar-demo", "next_month_button"),
		Trigger:     "click",
		Action:      "next_month",
	}, bag)
	require.NoError(t, err)

	wantYear, wantMonth := year, month+1
	if wantMonth > 12 {
		wantYear, wantMonth = year+1, 1
	}
	cal := entryFor(t, res.Payload, calID)
	assert.Equal(t, wantMonth, cal["month"])
	assert.Equal(t, wantYear, res.State.Int("store_cal_year", 0))
	assert.Equal(t, wantMonth, res.State.Int("store_cal_month", 0))
}
