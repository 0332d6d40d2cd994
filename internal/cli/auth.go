package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/fragmede/cpphub/internal/api"
	"github.com/fragmede/cpphub/internal/catalog"
	"github.com/fragmede/cpphub/internal/session"
)

// InvalidInputError carries the form errors of rejected credentials.
type InvalidInputError struct {
	Fields session.FieldErrors
}

func (e *InvalidInputError) Error() string {
	return strings.ToLower(e.Fields.First())
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fset := flag.NewFlagSet(name, flag.ContinueOnError)
	fset.SetOutput(a.out)
	return fset
}

func (a *App) login(ctx context.Context, args []string) error {
	fset := a.flagSet("login")
	email := fset.String("email", "", "account email")
	if err := fset.Parse(args); err != nil {
		return err
	}

	e, err := a.valueOr(*email, "Email")
	if err != nil {
		return err
	}
	pw, err := a.promptPassword()
	if err != nil {
		return err
	}
	if errs := session.ValidateCredentials(session.ModeLogin, e, pw, ""); len(errs) > 0 {
		return &InvalidInputError{Fields: errs}
	}

	if err := a.store.Login(ctx, e, pw); err != nil {
		return err
	}
	a.printUser(a.store.State().User, "Logged in as")
	return nil
}

func (a *App) register(ctx context.Context, args []string) error {
	fset := a.flagSet("register")
	email := fset.String("email", "", "account email")
	name := fset.String("name", "", "display name")
	planID := fset.String("plan", string(catalog.PlanPremium), "plan: free or premium")
	if err := fset.Parse(args); err != nil {
		return err
	}

	plan, err := accountPlan(*planID)
	if err != nil {
		return err
	}
	n, err := a.valueOr(*name, "Name")
	if err != nil {
		return err
	}
	e, err := a.valueOr(*email, "Email")
	if err != nil {
		return err
	}
	pw, err := a.promptPassword()
	if err != nil {
		return err
	}
	if errs := session.ValidateCredentials(session.ModeRegister, e, pw, n); len(errs) > 0 {
		return &InvalidInputError{Fields: errs}
	}

	if err := a.store.Register(ctx, e, pw, n, session.WithPlan(plan)); err != nil {
		return err
	}
	a.printUser(a.store.State().User, "Registered")
	return nil
}

func accountPlan(id string) (api.Plan, error) {
	p, ok := catalog.PlanByID(catalog.PlanID(id))
	if ok {
		if plan, ok := p.AccountPlan(); ok {
			return plan, nil
		}
	}
	return "", fmt.Errorf("plan %q cannot be chosen at registration", id)
}

func (a *App) logout(ctx context.Context) error {
	a.store.Restore(ctx)
	if !a.store.IsAuthenticated() {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	a.store.Logout(ctx)
	a.store.Wait()
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) whoami(ctx context.Context) error {
	a.store.Restore(ctx)
	st := a.store.State()
	if !st.Authenticated() {
		return session.ErrNotAuthenticated
	}
	a.printUser(st.User, "")
	return nil
}

func (a *App) printUser(u *api.User, prefix string) {
	if u == nil {
		return
	}
	line := fmt.Sprintf("%s <%s> (%s)", u.Name, u.Email, u.Plan)
	if prefix != "" {
		line = prefix + " " + line
	}
	fmt.Fprintln(a.out, line)
}
