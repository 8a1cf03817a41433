package assembly

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"
	"k8s.io/client-go/util/workqueue"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"

	"github.com/numtide/kafka-operator/pkg/util/lock"
)

// Reconciler adapts a Loop to a controller-runtime reconciler.
type Reconciler struct {
	Loop *Loop
}

var _ reconcile.Reconciler = (*Reconciler)(nil)

// Reconcile runs one pass for the request.
//
// A pass abandoned on a lock timeout is not requeued: the pass holding the
// lock or the next periodic resync picks the change up. Invalid specs are not
// requeued either; the generation change of a fixed spec triggers a new event.
func (r *Reconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	res, err := r.Loop.ReconcileOne(ctx, req.Namespace, req.Name)
	if err != nil {
		var timeout *lock.TimeoutError
		if errors.As(err, &timeout) {
			return ctrl.Result{}, nil
		}
		var invalid *InvalidSpecError
		if errors.As(err, &invalid) {
			log.FromContext(ctx).Info("Resource spec is invalid", "error", err.Error())
			return ctrl.Result{}, nil
		}
		return ctrl.Result{}, err
	}
	return ctrl.Result{RequeueAfter: res.RequeueAfter}, nil
}

// Rate limiter settings of the controller work queues.
const (
	RateLimiterBaseDelay = 500 * time.Millisecond
	RateLimiterMaxDelay  = 5 * time.Minute
	RateLimiterQPS       = 10
	RateLimiterBurst     = 100
)

// NewRateLimiter returns the work queue rate limiter shared by all
// controllers: per-item exponential backoff on failures, capped by an
// overall token bucket.
func NewRateLimiter() workqueue.TypedRateLimiter[reconcile.Request] {
	return workqueue.NewTypedMaxOfRateLimiter[reconcile.Request](
		workqueue.NewTypedItemExponentialFailureRateLimiter[reconcile.Request](RateLimiterBaseDelay, RateLimiterMaxDelay),
		&workqueue.TypedBucketRateLimiter[reconcile.Request]{
			Limiter: rate.NewLimiter(rate.Limit(RateLimiterQPS), RateLimiterBurst),
		},
	)
}
