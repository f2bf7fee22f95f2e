// Package dispatcher is the orchestrating core of the balancer. For each
// request it consults the cache, picks a healthy backend through the
// configured strategy, forwards with a bounded timeout, and absorbs
// transient backend failures with a single failover retry.
package dispatcher
