package observable

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/turbot/pipe-fittings/utils"

	"github.com/turbot/tailpipe-plugin-envi/events"
)

// ObservableImpl provides a base implementation of the Observable interface
// it is embedded in sources and in the collection
type ObservableImpl struct {
	observerLock sync.RWMutex
	// Observers is a list of all Observers that are currently connected
	Observers []Observer
}

func (p *ObservableImpl) AddObserver(o Observer) error {
	if o == nil {
		return errors.New("observer must not be nil")
	}
	slog.Debug("AddObserver", "observer", o)
	// add to list of Observers
	p.observerLock.Lock()
	p.Observers = append(p.Observers, o)
	p.observerLock.Unlock()

	return nil
}

func (p *ObservableImpl) NotifyObservers(ctx context.Context, e events.Event) error {
	p.observerLock.RLock()
	defer p.observerLock.RUnlock()
	var notifyErrors []error
	for _, observer := range p.Observers {
		err := observer.Notify(ctx, e)
		if err != nil {
			notifyErrors = append(notifyErrors, err)
		}
	}

	if len(notifyErrors) > 0 {
		return fmt.Errorf("error notifying %d %s: %w", len(notifyErrors), utils.Pluralize("observer", len(notifyErrors)), errors.Join(notifyErrors...))
	}
	return nil
}
