package common

// SpeedOfSound is in m/s. No cat goes faster.
const SpeedOfSound = 343.0
