package shop

import "strconv"

const TopicActivity = "storefront.activity"

// Partition key = user id, so events of one user stay in order.
func PartitionKey(userID int64) []byte { return []byte(strconv.FormatInt(userID, 10)) }
