// Package trajio reads the pipeline's input document and writes its JSON
// artifacts.
//
// Input (data.json):
//
//	{"robotPose":  [{"time":t,"x":x,"y":y,"theta":θ}, ...],
//	 "detections": [{"time":t,"poses":[{"x":x,"y":y,"theta":θ}, ...]}, ...]}
//
// Outputs, written into one directory:
//
//	robot_poses.json        aligned agent trajectory ("robotPose")
//	detections.json         raw detections ("detections")
//	detections_output.json  global trajectories, per instant ("detections")
//	                        and per object ("objects")
package trajio
