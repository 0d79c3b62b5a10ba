package service

import "fmt"

// ActionPlanCache remembers the last action plan issued per user and month
// so the next analysis can be asked not to repeat it. Entries never expire.
type ActionPlanCache struct {
	Store KeyValueStore
}

func (c ActionPlanCache) Last(userID, month string) (string, error) {
	v, ok, err := c.Store.Get(ActionPlanKey(userID, month))
	if err != nil {
		return "", fmt.Errorf("read last action plan: %w", err)
	}
	if !ok {
		return "", nil
	}
	return v, nil
}

func (c ActionPlanCache) Remember(userID, month, plan string) error {
	if err := c.Store.Set(ActionPlanKey(userID, month), plan); err != nil {
		return fmt.Errorf("remember action plan: %w", err)
	}
	return nil
}
