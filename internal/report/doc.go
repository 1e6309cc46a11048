// Package report renders static diagnostic views of a pipeline result:
// a PNG of the agent path and every object's global trajectory (gonum/plot)
// and an HTML scatter page of the same data (go-echarts).
package report
