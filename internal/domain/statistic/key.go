package statistic

// The single sorted set holding every member scored by points.
func redisKeyPointsLeaderboard() string {
	return "leaderboard:points"
}
